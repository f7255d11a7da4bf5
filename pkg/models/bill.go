package models

// BillKind tells whether a recurring template represents money in or out.
type BillKind string

const (
	BillIncome  BillKind = "income"
	BillExpense BillKind = "expense"
)

// Cadence is how often a recurring bill repeats.
type Cadence string

const (
	CadenceOnce     Cadence = "once"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
	CadenceYearly   Cadence = "yearly"
)

// Bill is a recurring bill template. Expansion into concrete due dates for a
// month is a pure function of the template set and the month key.
type Bill struct {
	ID         string   `json:"id" db:"id"`
	Label      string   `json:"label" db:"label"`
	Amount     float64  `json:"amount" db:"amount"`
	Kind       BillKind `json:"kind" db:"kind"`
	Cadence    Cadence  `json:"cadence" db:"cadence"`
	StartDate  string   `json:"startDate" db:"start_date"` // YYYY-MM-DD
	DayOfMonth int      `json:"dayOfMonth,omitempty" db:"day_of_month"`
}
