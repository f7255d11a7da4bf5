package accounts

import "github.com/amielsh/centsible/pkg/models"

// MergeTransactions appends incoming transactions to existing, silently
// dropping any whose composite key (date, lowercased description, exact
// amount) already appears. Incoming order is preserved. The dedupe is exact:
// near-duplicates differing by a cent stay distinct.
func MergeTransactions(existing, incoming []models.Transaction) []models.Transaction {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.Key()] = true
	}

	merged := make([]models.Transaction, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	for _, t := range incoming {
		key := t.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, t)
	}
	return merged
}
