package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferMappingHeaderAliases(t *testing.T) {
	header := []string{"Posting Date", "Description", "Amount", "Balance"}
	m := InferMapping(header, nil)

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Description)
	assert.Equal(t, 2, m.Amount)
	assert.Equal(t, AmountSingle, m.Mode)
	assert.InDelta(t, 1.0, m.Confidence, 0.001)
}

func TestInferMappingDebitCredit(t *testing.T) {
	header := []string{"Trans Date", "Details", "Debit", "Credit"}
	m := InferMapping(header, nil)

	assert.Equal(t, -1, m.Amount)
	assert.Equal(t, 2, m.Debit)
	assert.Equal(t, 3, m.Credit)
	assert.Equal(t, AmountDebitCredit, m.Mode)
}

func TestInferMappingExactBeatsSubstring(t *testing.T) {
	// "transaction amount" contains the description alias "transaction" but
	// is an exact amount alias; the amount field must claim it.
	header := []string{"Date", "Transaction Amount", "Memo"}
	m := InferMapping(header, nil)

	assert.Equal(t, 1, m.Amount)
	assert.Equal(t, 2, m.Description)
}

func TestInferMappingShapeFallback(t *testing.T) {
	// Headers give nothing away; shapes must find the date and money columns.
	header := []string{"c1", "c2", "c3"}
	var rows [][]string
	for i := 0; i < 12; i++ {
		rows = append(rows, []string{"2025-01-05", "some merchant", "$12.34"})
	}
	m := InferMapping(header, rows)

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 2, m.Amount)
	assert.Equal(t, AmountSingle, m.Mode)
	// Description has no shape predicate, so only two of three weights land.
	assert.InDelta(t, 0.67, m.Confidence, 0.001)
}

func TestInferMappingNothingFound(t *testing.T) {
	m := InferMapping([]string{"x", "y"}, [][]string{{"foo", "bar"}})
	assert.Equal(t, AmountNone, m.Mode)
	assert.Equal(t, -1, m.Date)
	assert.InDelta(t, 0, m.Confidence, 0.001)
}
