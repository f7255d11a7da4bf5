package flow

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/amielsh/centsible/pkg/models"
)

// Window restricts a report to a trailing date range ending today.
type Window string

const (
	Window30d Window = "30d"
	Window90d Window = "90d"
	Window6m  Window = "6m"
	Window12m Window = "12m"
	WindowAll Window = "all"
)

var windowDays = map[Window]int{
	Window30d: 30,
	Window90d: 90,
	Window6m:  182,
	Window12m: 365,
}

// Dimension is what income and expense transactions are grouped by.
type Dimension string

const (
	ByCategory    Dimension = "category"
	ByAccount     Dimension = "account"
	ByDescription Dimension = "description"
)

// Options configure one report build. Zero values fall back to sensible
// defaults (all-time window, category dimension, five groups, every account).
type Options struct {
	Window     Window
	Dimension  Dimension
	MaxGroups  int
	AccountIDs []string  // empty means all accounts
	Now        time.Time // zero means time.Now(); pinned in tests
}

// Summary holds the window totals.
type Summary struct {
	IncomeTotal  float64 `json:"incomeTotal"`
	ExpenseTotal float64 `json:"expenseTotal"`
	NetIncome    float64 `json:"netIncome"`
	Savings      float64 `json:"savings"`
	Shortfall    float64 `json:"shortfall"`
}

// Group is one aggregation bucket on either side of the diagram.
type Group struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Node is one box in the flow graph. Column is the left-to-right stage.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Column   int     `json:"column"`
	Color    string  `json:"color,omitempty"`
	Subtitle string  `json:"subtitle,omitempty"`
}

// Link connects two nodes by id.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Report is the full aggregation output, recomputed on every input change.
type Report struct {
	Summary Summary `json:"summary"`
	Income  []Group `json:"income"`
	Expense []Group `json:"expense"`
	Nodes   []Node  `json:"nodes"`
	Links   []Link  `json:"links"`
}

const (
	nodeCashFlow  = "cash-flow"
	nodeShortfall = "shortfall"
	nodeSavings   = "savings"

	colorIncome    = "#10b981"
	colorShortfall = "#f59e0b"
	colorCashFlow  = "#3b82f6"
	colorExpense   = "#ef4444"
	colorSavings   = "#8b5cf6"
	colorGoal      = "#a78bfa"

	// Only the first few goals become distinct nodes; long goal lists make
	// the diagram unreadable.
	maxGoalNodes = 4
)

// BuildReport classifies and aggregates every tracked transaction into the
// cash-flow graph. It is a pure function of its inputs; Now is injectable so
// windowed reports are reproducible.
func BuildReport(accounts []models.Account, goals []models.Goal, opts Options) *Report {
	opts = withDefaults(opts)
	lookup := BuildTransferLookup(accounts)

	wanted := make(map[string]bool, len(opts.AccountIDs))
	for _, id := range opts.AccountIDs {
		wanted[id] = true
	}

	var windowStart time.Time
	windowed := opts.Window != WindowAll
	if windowed {
		windowStart = opts.Now.AddDate(0, 0, -windowDays[opts.Window])
	}

	report := &Report{}
	incomeGroups := make(map[string]*Group)
	expenseGroups := make(map[string]*Group)

	for _, account := range accounts {
		if len(wanted) > 0 && !wanted[account.ID] {
			continue
		}
		for _, t := range account.Transactions {
			if windowed && !inWindow(t.Date, windowStart, opts.Now) {
				continue
			}
			switch Classify(t, account.ID, lookup) {
			case models.FlowIncome:
				report.Summary.IncomeTotal += t.Amount
				accumulate(incomeGroups, groupKey(t, account, opts.Dimension), math.Abs(t.Amount))
			case models.FlowExpense:
				report.Summary.ExpenseTotal += math.Abs(t.Amount)
				accumulate(expenseGroups, groupKey(t, account, opts.Dimension), math.Abs(t.Amount))
			}
			// Transfers and unknowns are intentionally excluded: they move
			// money between tracked accounts or cannot be typed at all.
		}
	}

	report.Summary.NetIncome = report.Summary.IncomeTotal - report.Summary.ExpenseTotal
	report.Summary.Savings = math.Max(report.Summary.NetIncome, 0)
	report.Summary.Shortfall = math.Max(report.Summary.ExpenseTotal-report.Summary.IncomeTotal, 0)

	report.Income = collapse(incomeGroups, opts.MaxGroups, "Other income")
	report.Expense = collapse(expenseGroups, opts.MaxGroups+1, "Other spending")

	buildGraph(report, goals)
	return report
}

func withDefaults(opts Options) Options {
	if opts.Window == "" {
		opts.Window = WindowAll
	}
	if opts.Dimension == "" {
		opts.Dimension = ByCategory
	}
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = 5
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return opts
}

// inWindow parses the transaction date and checks it against the inclusive
// range. Transactions whose date never parsed are only visible on the
// all-time window.
func inWindow(date string, start, end time.Time) bool {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return false
	}
	return !d.Before(start.Truncate(24*time.Hour)) && !d.After(end)
}

func groupKey(t models.Transaction, account models.Account, dim Dimension) string {
	switch dim {
	case ByAccount:
		return account.Name
	case ByDescription:
		return t.Description
	default:
		return t.Category
	}
}

func accumulate(groups map[string]*Group, key string, value float64) {
	if key == "" {
		key = "Uncategorized"
	}
	g := groups[key]
	if g == nil {
		g = &Group{Label: key}
		groups[key] = g
	}
	g.Value += value
	g.Count++
}

// collapse sorts groups by value descending and folds everything past the
// cap into a synthesized tail bucket, emitted only when it holds something.
func collapse(groups map[string]*Group, max int, tailLabel string) []Group {
	sorted := make([]Group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, *g)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Label < sorted[j].Label
	})

	if len(sorted) <= max {
		return sorted
	}

	kept := sorted[:max]
	tail := Group{Label: tailLabel}
	for _, g := range sorted[max:] {
		tail.Value += g.Value
		tail.Count += g.Count
	}
	if tail.Value > 0 {
		kept = append(kept, tail)
	}
	return kept
}

// buildGraph turns the summary and groups into nodes and links. A shortfall
// is modeled as an extra inbound edge from a synthetic node so the diagram
// balances even when expenses exceed income.
func buildGraph(report *Report, goals []models.Goal) {
	s := report.Summary
	effectiveInflow := s.IncomeTotal + s.Shortfall

	var nodes []Node
	var links []Link

	for _, g := range report.Income {
		id := "income:" + g.Label
		nodes = append(nodes, Node{
			ID:       id,
			Label:    g.Label,
			Value:    g.Value,
			Column:   0,
			Color:    colorIncome,
			Subtitle: percentOf(g.Value, s.IncomeTotal),
		})
		links = append(links, Link{Source: id, Target: nodeCashFlow, Value: g.Value})
	}

	if s.Shortfall > 0 {
		nodes = append(nodes, Node{
			ID:       nodeShortfall,
			Label:    "Covered by savings/credit",
			Value:    s.Shortfall,
			Column:   0,
			Color:    colorShortfall,
			Subtitle: percentOf(s.Shortfall, s.ExpenseTotal),
		})
		links = append(links, Link{Source: nodeShortfall, Target: nodeCashFlow, Value: s.Shortfall})
	}

	nodes = append(nodes, Node{
		ID:     nodeCashFlow,
		Label:  "Cash Flow",
		Value:  math.Max(effectiveInflow, 0),
		Column: 1,
		Color:  colorCashFlow,
	})

	for _, g := range report.Expense {
		id := "expense:" + g.Label
		nodes = append(nodes, Node{
			ID:       id,
			Label:    g.Label,
			Value:    g.Value,
			Column:   2,
			Color:    colorExpense,
			Subtitle: percentOf(g.Value, s.ExpenseTotal),
		})
		links = append(links, Link{Source: nodeCashFlow, Target: id, Value: g.Value})
	}

	if s.Savings > 0 {
		nodes = append(nodes, Node{
			ID:       nodeSavings,
			Label:    "Savings",
			Value:    s.Savings,
			Column:   2,
			Color:    colorSavings,
			Subtitle: percentOf(s.Savings, effectiveInflow),
		})
		links = append(links, Link{Source: nodeCashFlow, Target: nodeSavings, Value: s.Savings})

		planned := plannedGoals(goals)
		totalPlan := 0.0
		for _, g := range planned {
			totalPlan += g.MonthlyPlan
		}
		for _, g := range planned {
			id := "goal:" + g.ID
			slice := s.Savings * g.MonthlyPlan / math.Max(totalPlan, 1)
			nodes = append(nodes, Node{
				ID:       id,
				Label:    g.Name,
				Value:    slice,
				Column:   3,
				Color:    colorGoal,
				Subtitle: percentOf(g.MonthlyPlan, totalPlan),
			})
			links = append(links, Link{Source: nodeSavings, Target: id, Value: slice})
		}
	}

	report.Nodes = dedupeNodes(nodes)
	report.Links = links
}

// plannedGoals keeps the first goals (input order) with a positive monthly
// plan, capped at maxGoalNodes.
func plannedGoals(goals []models.Goal) []models.Goal {
	var planned []models.Goal
	for _, g := range goals {
		if g.MonthlyPlan > 0 {
			planned = append(planned, g)
			if len(planned) == maxGoalNodes {
				break
			}
		}
	}
	return planned
}

// percentOf formats value as a share of total, guarding the denominator so a
// zero total never divides.
func percentOf(value, total float64) string {
	return fmt.Sprintf("%.0f%%", value/math.Max(total, 1)*100)
}

// dedupeNodes drops nodes whose id was already seen; first occurrence wins.
func dedupeNodes(nodes []Node) []Node {
	seen := make(map[string]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}
