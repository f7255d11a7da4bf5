// Package accounts decides where an import lands: an existing account picked
// by description overlap, or a freshly synthesized one with a guessed name
// and type.
package accounts

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/amielsh/centsible/pkg/models"
)

// Matching thresholds: an import is assigned to the best-overlapping account
// when it shares at least minOverlap descriptions, or at least minRatio of
// its own unique descriptions.
const (
	minOverlap = 3
	minRatio   = 0.2
)

// bankKeywords maps normalized filename/description fragments to display
// names. Order matters only for readability; the first hit wins.
var bankKeywords = []struct {
	key  string
	name string
}{
	{"chase", "Chase"},
	{"capitalone", "Capital One"},
	{"wellsfargo", "Wells Fargo"},
	{"amex", "Amex"},
	{"discover", "Discover"},
	{"navyfederal", "Navy Federal"},
	{"mountainamerica", "Mountain America"},
	{"bankofamerica", "Bank of America"},
	{"usbank", "US Bank"},
	{"pnc", "PNC"},
}

// DetectTargetAccount returns the id of the existing account an import most
// likely belongs to, or "" when it should create a new account.
//
// With zero history across all accounts, overlap scoring is meaningless, so
// the cold-start rule always answers "". Ties resolve to the first account
// in slice order; the caller supplies an explicitly ordered slice, which
// keeps the choice deterministic.
func DetectTargetAccount(existing []models.Account, imported []models.Transaction) string {
	importedSet := descriptionSet(imported)
	if len(importedSet) == 0 {
		return ""
	}

	anyHistory := false
	for _, a := range existing {
		if len(a.Transactions) > 0 {
			anyHistory = true
			break
		}
	}
	if !anyHistory {
		return ""
	}

	bestID, bestOverlap := "", 0
	for _, a := range existing {
		if len(a.Transactions) == 0 {
			continue
		}
		overlap := 0
		for desc := range descriptionSet(a.Transactions) {
			if importedSet[desc] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestID, bestOverlap = a.ID, overlap
		}
	}

	if bestOverlap >= minOverlap || float64(bestOverlap)/float64(len(importedSet)) >= minRatio {
		return bestID
	}
	return ""
}

func descriptionSet(txs []models.Transaction) map[string]bool {
	set := make(map[string]bool, len(txs))
	for _, t := range txs {
		desc := strings.ToLower(strings.TrimSpace(t.Description))
		if desc != "" {
			set[desc] = true
		}
	}
	return set
}

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
	slugRe     = regexp.MustCompile(`[^a-z0-9-]+`)
)

// GuessName derives a display name for a new account. It tries the source
// filename against the bank keyword table, then the first 20 transaction
// descriptions, then the first usable word of the first description, and
// finally falls back to "Imported Account".
func GuessName(filename string, imported []models.Transaction) string {
	if name, ok := matchBank(filename); ok {
		return name
	}

	var sb strings.Builder
	for i, t := range imported {
		if i >= 20 {
			break
		}
		sb.WriteString(t.Description)
		sb.WriteString(" ")
	}
	if name, ok := matchBank(sb.String()); ok {
		return name
	}

	if len(imported) > 0 {
		for _, word := range strings.Fields(imported[0].Description) {
			if len(word) > 3 {
				return titleCase(word) + " Account"
			}
			break
		}
	}
	return "Imported Account"
}

func matchBank(s string) (string, bool) {
	normalized := nonAlnumRe.ReplaceAllString(strings.ToLower(s), "")
	if normalized == "" {
		return "", false
	}
	for _, bank := range bankKeywords {
		if strings.Contains(normalized, bank.key) {
			return bank.name, true
		}
	}
	return "", false
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// GuessType classifies a new account as credit when debits dominate its
// imported transactions (at least 70% by count), checking otherwise.
func GuessType(imported []models.Transaction) models.AccountType {
	if len(imported) == 0 {
		return models.AccountChecking
	}
	negative, positive := 0, 0
	for _, t := range imported {
		if t.Amount < 0 {
			negative++
		} else if t.Amount > 0 {
			positive++
		}
	}
	if negative+positive == 0 {
		return models.AccountChecking
	}
	if float64(negative)/float64(negative+positive) >= 0.7 {
		return models.AccountCredit
	}
	return models.AccountChecking
}

// NewID builds an id from the slugified name plus the current timestamp,
// which is unique for any practical import rate.
func NewID(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugRe.ReplaceAllString(slug, "")
	if slug == "" {
		slug = "account"
	}
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}
