package models

// Goal is a savings target, independent of accounts and transactions.
// Saved and Target are both user-editable.
type Goal struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Icon        string  `json:"icon" db:"icon"`
	Target      float64 `json:"target" db:"target"`
	Saved       float64 `json:"saved" db:"saved"`
	MonthlyPlan float64 `json:"monthlyPlan" db:"monthly_plan"`
	Theme       string  `json:"theme" db:"theme"`
}

// Progress returns completion as a percentage clamped to [0, 100].
// A goal without a positive target reports zero.
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Saved / g.Target * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
