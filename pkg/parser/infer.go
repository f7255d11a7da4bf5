package parser

import (
	"regexp"
	"strings"
)

// AmountMode tells how the amount of a row is resolved.
type AmountMode string

const (
	// AmountSingle means one signed amount column was found.
	AmountSingle AmountMode = "amount"
	// AmountDebitCredit means separate debit and credit columns were found;
	// the amount is credit minus debit so inflow stays positive.
	AmountDebitCredit AmountMode = "debitCredit"
	// AmountNone means no amount-bearing column was found; rows contribute
	// no transactions.
	AmountNone AmountMode = "unknown"
)

// Mapping is the result of column inference: the index of each canonical
// field in a tokenized row, -1 when absent.
type Mapping struct {
	Date        int
	Description int
	Amount      int
	Debit       int
	Credit      int
	Mode        AmountMode
	Confidence  float64
}

var headerAliases = map[string][]string{
	"date":        {"date", "transaction date", "posted date", "posting date", "post date", "trans date"},
	"description": {"description", "memo", "payee", "details", "transaction", "name", "merchant", "narrative"},
	"amount":      {"amount", "transaction amount", "amt"},
	"debit":       {"debit", "withdrawal", "withdrawals", "money out", "paid out"},
	"credit":      {"credit", "deposit", "deposits", "money in", "paid in"},
}

var (
	dateShapeRe  = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}`)
	moneyShapeRe = regexp.MustCompile(`^\(?[-+]?[$€£]?\s?\d[\d,]*(\.\d+)?\)?$`)
)

// shapeSampleSize is how many data rows the content fallback inspects.
const shapeSampleSize = 12

// InferMapping maps bank-specific headers onto the canonical fields. Headers
// are scored against alias lists (exact match 10, substring 6); when a field
// gets no header hit the first few data rows are tested against a shape
// predicate instead. The confidence score is informational only; parsing
// proceeds regardless.
func InferMapping(header []string, dataRows [][]string) Mapping {
	m := Mapping{Date: -1, Description: -1, Amount: -1, Debit: -1, Credit: -1, Mode: AmountNone}

	m.Date = bestHeaderMatch(header, headerAliases["date"])
	m.Description = bestHeaderMatch(header, headerAliases["description"])
	m.Amount = bestHeaderMatch(header, headerAliases["amount"])
	m.Debit = bestHeaderMatch(header, headerAliases["debit"])
	m.Credit = bestHeaderMatch(header, headerAliases["credit"])

	if m.Date == -1 {
		m.Date = shapeMatch(dataRows, dateShapeRe, nil)
	}
	if m.Amount == -1 && m.Debit == -1 && m.Credit == -1 {
		m.Amount = shapeMatch(dataRows, moneyShapeRe, map[int]bool{m.Date: true})
	}

	switch {
	case m.Amount != -1:
		m.Mode = AmountSingle
	case m.Debit != -1 || m.Credit != -1:
		m.Mode = AmountDebitCredit
	}

	if m.Date != -1 {
		m.Confidence += 0.34
	}
	if m.Description != -1 {
		m.Confidence += 0.33
	}
	if m.Mode != AmountNone {
		m.Confidence += 0.33
	}

	return m
}

func normalizeHeader(cell string) string {
	return strings.Join(strings.Fields(strings.ToLower(cell)), " ")
}

func bestHeaderMatch(header []string, aliases []string) int {
	best, bestScore := -1, 0
	for i, cell := range header {
		normalized := normalizeHeader(cell)
		if normalized == "" {
			continue
		}
		for _, alias := range aliases {
			score := 0
			if normalized == alias {
				score = 10
			} else if strings.Contains(normalized, alias) {
				score = 6
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
	}
	return best
}

// shapeMatch samples up to shapeSampleSize data rows and returns the first
// column where at least half the full sample matches the predicate. Columns
// in exclude are skipped.
func shapeMatch(dataRows [][]string, re *regexp.Regexp, exclude map[int]bool) int {
	sample := dataRows
	if len(sample) > shapeSampleSize {
		sample = sample[:shapeSampleSize]
	}
	if len(sample) == 0 {
		return -1
	}

	needed := shapeSampleSize / 2
	if len(sample) < shapeSampleSize {
		needed = (len(sample) + 1) / 2
	}

	cols := 0
	for _, row := range sample {
		if len(row) > cols {
			cols = len(row)
		}
	}

	for col := 0; col < cols; col++ {
		if exclude[col] {
			continue
		}
		matches := 0
		for _, row := range sample {
			if col < len(row) && re.MatchString(strings.TrimSpace(row[col])) {
				matches++
			}
		}
		if matches >= needed {
			return col
		}
	}
	return -1
}
