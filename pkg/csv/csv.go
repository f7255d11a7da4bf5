// Package csv writes normalized transactions back out as CSV, for users who
// want their cleaned-up data in a spreadsheet.
package csv

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/amielsh/centsible/pkg/models"
)

// FilterFunc selects which transactions to include. A nil filter keeps all.
type FilterFunc func(models.Transaction) bool

// Create renders transactions as CSV bytes with a fixed header.
func Create(transactions []models.Transaction, filter FilterFunc) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Description", "Amount", "Category"}); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		if filter != nil && !filter(t) {
			continue
		}
		record := []string{
			t.Date,
			t.Description,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Category,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
