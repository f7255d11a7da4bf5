package models

import (
	"math"
	"strconv"
	"strings"
)

// FlowType labels the direction of money movement for a transaction.
type FlowType string

const (
	FlowIncome   FlowType = "income"
	FlowExpense  FlowType = "expense"
	FlowTransfer FlowType = "transfer"
	FlowUnknown  FlowType = "unknown"

	// FlowAuto means no manual override is set and the flow type must be
	// derived by the classifier.
	FlowAuto FlowType = "auto"
)

// Transaction is the canonical record produced by statement parsing.
// Amount is signed: positive is an inflow, negative an outflow. Rows whose
// amount cannot be parsed never become transactions, so Amount is never NaN
// on a stored record.
type Transaction struct {
	Date        string   `json:"date" db:"date"` // YYYY-MM-DD when parseable, else the raw cell
	Description string   `json:"description" db:"description"`
	Amount      float64  `json:"amount" db:"amount"`
	Category    string   `json:"category" db:"category"`
	FlowType    FlowType `json:"flowType,omitempty" db:"flow_type"`
}

// Key returns the composite dedupe key used when merging an import into an
// account: date, lowercased description and the exact amount. Two rows that
// differ by a cent or a single character are distinct on purpose.
func (t Transaction) Key() string {
	amount := "NaN"
	if !math.IsNaN(t.Amount) {
		amount = strconv.FormatFloat(t.Amount, 'f', -1, 64)
	}
	return strings.TrimSpace(t.Date) + "|" + strings.ToLower(strings.TrimSpace(t.Description)) + "|" + amount
}
