package models

// AccountType distinguishes deposit accounts from credit lines.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountCredit   AccountType = "credit"
)

// Account owns zero or more transactions. Accounts are created explicitly by
// the user or synthesized by the resolver when an import matches nothing.
type Account struct {
	ID              string        `json:"id" db:"id"`
	Name            string        `json:"name" db:"name"`
	Type            AccountType   `json:"type" db:"type"`
	StartingBalance float64       `json:"startingBalance" db:"starting_balance"`
	Transactions    []Transaction `json:"transactions,omitempty"`
}

// Balance is always re-derived, never stored.
func (a *Account) Balance() float64 {
	total := a.StartingBalance
	for _, t := range a.Transactions {
		total += t.Amount
	}
	return total
}
