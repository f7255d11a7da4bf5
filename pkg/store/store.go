// Package store persists accounts, transactions, goals and bill templates
// in a local sqlite database. The schema is versioned; opening an older
// database runs the pending migrations once, before anything else touches it.
package store

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/amielsh/centsible/pkg/models"
)

type Store struct {
	db     *sqlx.DB
	logger *log.Logger
}

// Open connects to the database at path, creating it when absent, and brings
// the schema up to the current version.
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Accounts returns every account with its transactions, in creation order.
// Creation order is what makes resolver tie-breaks deterministic.
func (s *Store) Accounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Select(&accounts, "SELECT id, name, type, starting_balance FROM accounts ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	for i := range accounts {
		var txs []models.Transaction
		err := s.db.Select(&txs,
			"SELECT date, description, amount, category, flow_type FROM transactions WHERE account_id = ? ORDER BY seq",
			accounts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for %s: %w", accounts[i].ID, err)
		}
		accounts[i].Transactions = txs
	}
	return accounts, nil
}

// PutAccount inserts or updates the account record. Transactions are managed
// separately through SetTransactions.
func (s *Store) PutAccount(a models.Account) error {
	_, err := s.db.Exec(`INSERT INTO accounts (id, name, type, starting_balance) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, type = excluded.type, starting_balance = excluded.starting_balance`,
		a.ID, a.Name, a.Type, a.StartingBalance)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", a.ID, err)
	}
	return nil
}

// DeleteAccount removes the account and its transactions. No other records
// reference accounts, so there are no further side effects.
func (s *Store) DeleteAccount(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions WHERE account_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete transactions for %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM accounts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return tx.Commit()
}

// SetTransactions replaces the account's transaction set in one database
// transaction, preserving slice order.
func (s *Store) SetTransactions(accountID string, txs []models.Transaction) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions WHERE account_id = ?", accountID); err != nil {
		return fmt.Errorf("failed to clear transactions for %s: %w", accountID, err)
	}
	for i, t := range txs {
		_, err := tx.Exec(
			"INSERT INTO transactions (account_id, seq, date, description, amount, category, flow_type) VALUES (?, ?, ?, ?, ?, ?, ?)",
			accountID, i, t.Date, t.Description, t.Amount, t.Category, t.FlowType)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %d for %s: %w", i, accountID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Goals() ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Select(&goals, "SELECT id, name, icon, target, saved, monthly_plan, theme FROM goals ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *Store) PutGoal(g models.Goal) error {
	_, err := s.db.Exec(`INSERT INTO goals (id, name, icon, target, saved, monthly_plan, theme) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, icon = excluded.icon, target = excluded.target,
		saved = excluded.saved, monthly_plan = excluded.monthly_plan, theme = excluded.theme`,
		g.ID, g.Name, g.Icon, g.Target, g.Saved, g.MonthlyPlan, g.Theme)
	if err != nil {
		return fmt.Errorf("failed to save goal %s: %w", g.ID, err)
	}
	return nil
}

func (s *Store) DeleteGoal(id string) error {
	_, err := s.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", id, err)
	}
	return nil
}

func (s *Store) Bills() ([]models.Bill, error) {
	var bills []models.Bill
	if err := s.db.Select(&bills, "SELECT id, label, amount, kind, cadence, start_date, day_of_month FROM bills ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (s *Store) PutBill(b models.Bill) error {
	_, err := s.db.Exec(`INSERT INTO bills (id, label, amount, kind, cadence, start_date, day_of_month) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET label = excluded.label, amount = excluded.amount, kind = excluded.kind,
		cadence = excluded.cadence, start_date = excluded.start_date, day_of_month = excluded.day_of_month`,
		b.ID, b.Label, b.Amount, b.Kind, b.Cadence, b.StartDate, b.DayOfMonth)
	if err != nil {
		return fmt.Errorf("failed to save bill %s: %w", b.ID, err)
	}
	return nil
}

func (s *Store) DeleteBill(id string) error {
	_, err := s.db.Exec("DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bill %s: %w", id, err)
	}
	return nil
}

// Snapshot assembles the full persisted state.
func (s *Store) Snapshot() (*models.Snapshot, error) {
	accounts, err := s.Accounts()
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals()
	if err != nil {
		return nil, err
	}
	bills, err := s.Bills()
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{
		SchemaVersion: models.SchemaVersion,
		Accounts:      accounts,
		Goals:         goals,
		Bills:         bills,
	}, nil
}
