package parser

import "strings"

// Tokenize splits raw statement text into rows of trimmed fields. Splitting
// is quote-aware: content between double quotes is kept literal, including
// embedded commas. Quote characters are stripped; escaped quotes are not
// handled (bank exports don't use them). Blank lines are dropped.
func Tokenize(raw string) [][]string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var rows [][]string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitLine(line))
	}
	return rows
}

func splitLine(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}
