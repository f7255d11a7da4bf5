package parser

import (
	"math"
	"strings"
	"time"

	"github.com/amielsh/centsible/pkg/models"
)

var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// normalizeDate returns the cell as YYYY-MM-DD when one of the known formats
// parses, otherwise the raw trimmed cell. Banks are not consistent enough to
// make an unparseable date fatal.
func normalizeDate(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return ""
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// transactionsFromRows runs column inference over the tokenized rows and
// normalizes each data row into a transaction. Rows with an unparseable
// amount, or with nothing in any canonical field, are dropped silently.
func (p *Parser) transactionsFromRows(rows [][]string) []models.Transaction {
	if len(rows) < 2 {
		return nil
	}

	header, data := rows[0], rows[1:]
	m := InferMapping(header, data)
	p.logger.Debug("inferred columns",
		"date", m.Date, "description", m.Description,
		"amount", m.Amount, "debit", m.Debit, "credit", m.Credit,
		"mode", m.Mode, "confidence", m.Confidence)

	var out []models.Transaction
	for _, row := range data {
		date := normalizeDate(cellAt(row, m.Date))
		desc := strings.TrimSpace(cellAt(row, m.Description))
		amount := resolveAmount(row, m)

		if date == "" && desc == "" && math.IsNaN(amount) {
			continue
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}

		out = append(out, models.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Category:    p.categorizer.Categorize(desc, amount),
		})
	}
	return out
}

// resolveAmount applies the amount-mode rule: a single signed column, or
// credit minus debit so that inflow stays positive.
func resolveAmount(row []string, m Mapping) float64 {
	switch m.Mode {
	case AmountSingle:
		return ParseAmountCell(cellAt(row, m.Amount))
	case AmountDebitCredit:
		debit := ParseAmountCell(cellAt(row, m.Debit))
		credit := ParseAmountCell(cellAt(row, m.Credit))
		if math.IsNaN(debit) && math.IsNaN(credit) {
			return math.NaN()
		}
		if math.IsNaN(debit) {
			debit = 0
		}
		if math.IsNaN(credit) {
			credit = 0
		}
		return credit - debit
	}
	return math.NaN()
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
