package flow

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amielsh/centsible/pkg/models"
)

var reportNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func singleAccount(txs ...models.Transaction) []models.Account {
	return []models.Account{{ID: "checking", Name: "Checking", Transactions: txs}}
}

func findNode(t *testing.T, report *Report, id string) Node {
	t.Helper()
	for _, n := range report.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not found", id)
	return Node{}
}

func TestBuildReportTotals(t *testing.T) {
	accounts := singleAccount(
		models.Transaction{Date: "2025-01-05", Description: "Paycheck Direct Deposit", Amount: 2000, Category: "Income – Paycheck"},
		models.Transaction{Date: "2025-01-06", Description: "Walmart Grocery", Amount: -54.32, Category: "Groceries"},
		models.Transaction{Date: "2025-01-07", Description: "Corner store", Amount: -45.68, Category: "Other"},
	)

	report := BuildReport(accounts, nil, Options{Now: reportNow})
	assert.InDelta(t, 2000, report.Summary.IncomeTotal, 0.001)
	assert.InDelta(t, 100, report.Summary.ExpenseTotal, 0.001)
	assert.InDelta(t, 1900, report.Summary.NetIncome, 0.001)
	assert.InDelta(t, 1900, report.Summary.Savings, 0.001)
	assert.InDelta(t, 0, report.Summary.Shortfall, 0.001)
}

func TestBuildReportBalanceInvariant(t *testing.T) {
	// Expenses exceed income; the shortfall shows up as an extra inbound
	// edge and the first column still sums to the central node's value.
	accounts := singleAccount(
		models.Transaction{Date: "2025-01-05", Description: "Garage sale", Amount: 3000, Category: "Income – Other"},
		models.Transaction{Date: "2025-01-06", Description: "APT RENT", Amount: -4000, Category: "Housing"},
	)

	report := BuildReport(accounts, nil, Options{Now: reportNow})
	require.InDelta(t, 1000, report.Summary.Shortfall, 0.001)

	columnZero := 0.0
	for _, n := range report.Nodes {
		if n.Column == 0 {
			columnZero += n.Value
		}
	}
	central := findNode(t, report, "cash-flow")
	assert.InDelta(t, central.Value, columnZero, 1e-9)

	shortfall := findNode(t, report, "shortfall")
	assert.Equal(t, "Covered by savings/credit", shortfall.Label)
	assert.InDelta(t, 1000, shortfall.Value, 0.001)
}

func TestBuildReportSavingsAndGoalSlices(t *testing.T) {
	accounts := singleAccount(
		models.Transaction{Date: "2025-01-05", Description: "Paycheck Direct Deposit", Amount: 5000, Category: "Income – Paycheck"},
		models.Transaction{Date: "2025-01-06", Description: "APT RENT", Amount: -3000, Category: "Housing"},
	)
	goals := []models.Goal{
		{ID: "g1", Name: "Emergency fund", MonthlyPlan: 300},
		{ID: "g2", Name: "Vacation", MonthlyPlan: 100},
		{ID: "g3", Name: "No plan"}, // excluded: no monthly plan
		{ID: "g4", Name: "Car", MonthlyPlan: 50},
		{ID: "g5", Name: "Laptop", MonthlyPlan: 50},
		{ID: "g6", Name: "Overflow", MonthlyPlan: 500}, // excluded: past the cap
	}

	report := BuildReport(accounts, goals, Options{Now: reportNow})
	require.InDelta(t, 2000, report.Summary.Savings, 0.001)

	savings := findNode(t, report, "savings")
	assert.InDelta(t, 2000, savings.Value, 0.001)

	var goalNodes []Node
	goalSum := 0.0
	for _, n := range report.Nodes {
		if n.Column == 3 {
			goalNodes = append(goalNodes, n)
			goalSum += n.Value
		}
	}
	require.Len(t, goalNodes, 4)
	assert.InDelta(t, 2000, goalSum, 0.001)

	// g1 holds 300 of the 500 planned total.
	g1 := findNode(t, report, "goal:g1")
	assert.InDelta(t, 1200, g1.Value, 0.001)
	assert.Equal(t, "60%", g1.Subtitle)

	// g6 never became a node.
	for _, n := range goalNodes {
		assert.NotEqual(t, "goal:g6", n.ID)
	}
}

func TestBuildReportCollapsesTail(t *testing.T) {
	var txs []models.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, models.Transaction{
			Date:        "2025-01-10",
			Description: fmt.Sprintf("merchant %d", i),
			Amount:      -float64(100 - i),
			Category:    fmt.Sprintf("Category %d", i),
		})
	}

	report := BuildReport(singleAccount(txs...), nil, Options{MaxGroups: 3, Now: reportNow})

	// 3+1 expense groups plus the synthesized tail.
	require.Len(t, report.Expense, 5)
	tail := report.Expense[4]
	assert.Equal(t, "Other spending", tail.Label)
	assert.InDelta(t, 96+95+94+93+92+91, tail.Value, 0.001)
	// Groups are ordered by value descending.
	assert.Equal(t, "Category 0", report.Expense[0].Label)
}

func TestBuildReportWindowFilter(t *testing.T) {
	accounts := singleAccount(
		models.Transaction{Date: "2025-01-25", Description: "Recent coffee", Amount: -5, Category: "Dining"},
		models.Transaction{Date: "2024-10-01", Description: "Old rent", Amount: -1400, Category: "Housing"},
		models.Transaction{Date: "not a date", Description: "Mystery", Amount: -10, Category: "Other"},
	)

	windowed := BuildReport(accounts, nil, Options{Window: Window30d, Now: reportNow})
	assert.InDelta(t, 5, windowed.Summary.ExpenseTotal, 0.001)

	all := BuildReport(accounts, nil, Options{Window: WindowAll, Now: reportNow})
	assert.InDelta(t, 1415, all.Summary.ExpenseTotal, 0.001)
}

func TestBuildReportAccountFilter(t *testing.T) {
	accounts := []models.Account{
		{ID: "a", Name: "A", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Corner store", Amount: -10, Category: "Other"},
		}},
		{ID: "b", Name: "B", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Bookshop", Amount: -20, Category: "Other"},
		}},
	}

	report := BuildReport(accounts, nil, Options{AccountIDs: []string{"a"}, Now: reportNow})
	assert.InDelta(t, 10, report.Summary.ExpenseTotal, 0.001)
}

func TestBuildReportTransfersExcluded(t *testing.T) {
	accounts := []models.Account{
		{ID: "checking", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Outgoing funds", Amount: -500},
			{Date: "2025-01-11", Description: "Corner store", Amount: -10, Category: "Other"},
		}},
		{ID: "savings", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Incoming funds", Amount: 500},
		}},
	}

	report := BuildReport(accounts, nil, Options{Now: reportNow})
	assert.InDelta(t, 0, report.Summary.IncomeTotal, 0.001)
	assert.InDelta(t, 10, report.Summary.ExpenseTotal, 0.001)
}

func TestBuildReportNodeIDsUnique(t *testing.T) {
	// Grouping by description can collide with the synthetic node labels;
	// ids must stay unique with the first occurrence winning.
	report := BuildReport(singleAccount(
		models.Transaction{Date: "2025-01-10", Description: "Groceries", Amount: -10, Category: "Groceries"},
		models.Transaction{Date: "2025-01-11", Description: "Groceries", Amount: -20, Category: "Groceries"},
	), nil, Options{Dimension: ByDescription, Now: reportNow})

	seen := map[string]bool{}
	for _, n := range report.Nodes {
		assert.False(t, seen[n.ID], "duplicate node id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(nil, nil, Options{Now: reportNow})
	assert.Zero(t, report.Summary.IncomeTotal)
	assert.Zero(t, report.Summary.ExpenseTotal)
	central := findNode(t, report, "cash-flow")
	assert.Zero(t, central.Value)
}
