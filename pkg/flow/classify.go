// Package flow classifies transactions as income, expense or transfer and
// aggregates them into the node/link graph behind the cash-flow diagram.
package flow

import (
	"math"
	"strconv"
	"strings"

	"github.com/amielsh/centsible/pkg/models"
)

// transferKeywords mark a transaction as an internal transfer on sight.
var transferKeywords = []string{"transfer", "xfer", "ach", "payment to", "payment from"}

// TransferLookup indexes every tracked transaction by date and magnitude so
// that internal transfers between two accounts can be detected. It must be
// built over all accounts, not just the one being classified, since transfer
// detection is inherently cross-account.
type TransferLookup map[string]*pairEntry

type pairEntry struct {
	positive map[string]bool // account ids seen with a positive amount
	negative map[string]bool // account ids seen with a negative amount
}

// BuildTransferLookup indexes all transactions of all accounts. Build it
// once per aggregation pass.
func BuildTransferLookup(accounts []models.Account) TransferLookup {
	lookup := make(TransferLookup)
	for _, a := range accounts {
		for _, t := range a.Transactions {
			if t.Amount == 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
				continue
			}
			key := pairKey(t.Date, t.Amount)
			entry := lookup[key]
			if entry == nil {
				entry = &pairEntry{positive: make(map[string]bool), negative: make(map[string]bool)}
				lookup[key] = entry
			}
			if t.Amount > 0 {
				entry.positive[a.ID] = true
			} else {
				entry.negative[a.ID] = true
			}
		}
	}
	return lookup
}

func pairKey(date string, amount float64) string {
	return strings.TrimSpace(date) + "|" + strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
}

// Classify labels a single transaction. A manual flow type other than auto is
// honored verbatim. Zero or non-finite amounts are unknown. Transfer keywords
// win next; then a same-day, same-magnitude, opposite-sign counterpart in a
// different account marks an internal transfer. Otherwise the sign decides.
func Classify(t models.Transaction, accountID string, lookup TransferLookup) models.FlowType {
	if t.FlowType != "" && t.FlowType != models.FlowAuto {
		return t.FlowType
	}
	if t.Amount == 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return models.FlowUnknown
	}

	haystack := strings.ToLower(t.Description + " " + t.Category)
	for _, kw := range transferKeywords {
		if strings.Contains(haystack, kw) {
			return models.FlowTransfer
		}
	}

	if entry := lookup[pairKey(t.Date, t.Amount)]; entry != nil && len(entry.positive) > 0 && len(entry.negative) > 0 {
		opposite := entry.negative
		if t.Amount < 0 {
			opposite = entry.positive
		}
		for id := range opposite {
			if id != accountID {
				return models.FlowTransfer
			}
		}
	}

	if t.Amount > 0 {
		return models.FlowIncome
	}
	if t.Amount < 0 {
		return models.FlowExpense
	}
	return models.FlowUnknown
}
