package store

import "fmt"

// migrations[i] brings the schema from version i to version i+1. Never edit
// a shipped migration; append a new one.
var migrations = []string{
	// v1: initial schema
	`CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'checking',
		starting_balance REAL NOT NULL DEFAULT 0
	);
	CREATE TABLE transactions (
		account_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		amount REAL NOT NULL,
		category TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX idx_transactions_account ON transactions (account_id, seq);
	CREATE TABLE goals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		target REAL NOT NULL DEFAULT 0,
		saved REAL NOT NULL DEFAULT 0,
		monthly_plan REAL NOT NULL DEFAULT 0,
		theme TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE bills (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		kind TEXT NOT NULL DEFAULT 'expense',
		cadence TEXT NOT NULL DEFAULT 'monthly',
		start_date TEXT NOT NULL DEFAULT '',
		day_of_month INTEGER NOT NULL DEFAULT 0
	);`,

	// v2: manual flow-type overrides on transactions
	`ALTER TABLE transactions ADD COLUMN flow_type TEXT NOT NULL DEFAULT '';`,
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec("CREATE TABLE IF NOT EXISTS schema_info (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("failed to create schema_info: %w", err)
	}

	var version int
	if err := s.db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_info"); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, len(migrations))
	}

	for v := version; v < len(migrations); v++ {
		tx, err := s.db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration to v%d failed: %w", v+1, err)
		}
		if _, err := tx.Exec("DELETE FROM schema_info"); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("INSERT INTO schema_info (version) VALUES (?)", v+1); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		s.logger.Info("migrated database schema", "version", v+1)
	}
	return nil
}
