package parser

import (
	"math"
	"strconv"
	"strings"
)

var moneyCleaner = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "", " ", "")

// ParseAmountCell parses a money cell into a signed float. Currency symbols,
// thousands separators and whitespace are stripped; parentheses denote
// negation ("($1,234.56)" -> -1234.56). An empty or non-numeric cell yields
// NaN, which the normalizer treats as fatal for that row only.
func ParseAmountCell(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}

	negate := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negate = true
		s = s[1 : len(s)-1]
	}

	s = strings.TrimSpace(moneyCleaner.Replace(s))
	if s == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	if negate {
		v = -v
	}
	return v
}
