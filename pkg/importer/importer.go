// Package importer runs one statement import end to end: parse, resolve the
// target account, merge with dedupe, persist. Each import is a single atomic
// computation against a snapshot of the existing accounts.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/amielsh/centsible/pkg/accounts"
	"github.com/amielsh/centsible/pkg/models"
	"github.com/amielsh/centsible/pkg/parser"
	"github.com/amielsh/centsible/pkg/store"
)

type Importer struct {
	store  *store.Store
	parser *parser.Parser
	logger *log.Logger
}

func New(store *store.Store, parser *parser.Parser, logger *log.Logger) *Importer {
	return &Importer{store: store, parser: parser, logger: logger}
}

// Result summarizes one import.
type Result struct {
	File           string `json:"file"`
	AccountID      string `json:"accountId"`
	AccountName    string `json:"accountName"`
	CreatedAccount bool   `json:"createdAccount"`
	Parsed         int    `json:"parsed"`
	Added          int    `json:"added"`
	Skipped        int    `json:"skipped"` // dropped by dedupe, not parse failures
}

// ImportBytes imports a raw statement. accountID pins the target account;
// when empty the resolver decides, synthesizing a new account if nothing
// matches. A statement with zero usable rows is the only parse-level error.
func (i *Importer) ImportBytes(data []byte, filename, accountID string) (*Result, error) {
	parsed, err := i.parser.ParseStatement(data, filename)
	if err != nil {
		return nil, err
	}

	existing, err := i.store.Accounts()
	if err != nil {
		return nil, err
	}

	result := &Result{File: filename, Parsed: len(parsed)}

	var target *models.Account
	if accountID != "" {
		for idx := range existing {
			if existing[idx].ID == accountID {
				target = &existing[idx]
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("account %s not found", accountID)
		}
	} else if id := accounts.DetectTargetAccount(existing, parsed); id != "" {
		for idx := range existing {
			if existing[idx].ID == id {
				target = &existing[idx]
				break
			}
		}
	}

	if target == nil {
		name := accounts.GuessName(filename, parsed)
		fresh := models.Account{
			ID:   accounts.NewID(name),
			Name: name,
			Type: accounts.GuessType(parsed),
		}
		if err := i.store.PutAccount(fresh); err != nil {
			return nil, err
		}
		i.logger.Info("created account for import", "id", fresh.ID, "name", fresh.Name, "type", fresh.Type)
		target = &fresh
		result.CreatedAccount = true
	}

	merged := accounts.MergeTransactions(target.Transactions, parsed)
	result.AccountID = target.ID
	result.AccountName = target.Name
	result.Added = len(merged) - len(target.Transactions)
	result.Skipped = len(parsed) - result.Added

	if err := i.store.SetTransactions(target.ID, merged); err != nil {
		return nil, err
	}

	i.logger.Info("imported statement",
		"file", filename, "account", target.Name,
		"parsed", result.Parsed, "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

// ImportFile imports a statement from disk.
func (i *Importer) ImportFile(path, accountID string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file %s: %w", path, err)
	}
	return i.ImportBytes(data, filepath.Base(path), accountID)
}

// ImportDirectory imports every statement file in a directory. Per-file
// failures are logged and skipped so one bad export doesn't abort the batch.
func (i *Importer) ImportDirectory(dir string) ([]*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var results []*Result
	for _, entry := range entries {
		if entry.IsDir() || !isStatementFile(entry.Name()) {
			continue
		}
		result, err := i.ImportFile(filepath.Join(dir, entry.Name()), "")
		if err != nil {
			i.logger.Warn("failed to import file", "file", entry.Name(), "error", err)
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// ImportManifest imports every statement listed in a manifest, honoring the
// per-entry account pins.
func (i *Importer) ImportManifest(m *models.Manifest) ([]*Result, error) {
	var results []*Result
	for _, spec := range m.Imports {
		path, err := spec.File()
		if err != nil {
			return nil, err
		}
		result, err := i.ImportFile(path, spec.AccountID)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %s: %w", spec.FilePath, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func isStatementFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".xls") || strings.HasSuffix(lower, ".txt")
}
