package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/amielsh/centsible/pkg/flow"
	"github.com/amielsh/centsible/pkg/importer"
	"github.com/amielsh/centsible/pkg/sankey"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	savingsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")) // magenta
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the cash-flow report for the tracked accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(cmd)
		cfg, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		accounts, err := st.Accounts()
		if err != nil {
			return err
		}
		goals, err := st.Goals()
		if err != nil {
			return err
		}

		report := flow.BuildReport(accounts, goals, cfg.FlowOptions())

		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			pp.Println(report)
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}

		renderReport(report, cfg.Report.Window)
		return nil
	},
}

// renderReport prints the report as the column-grouped list view, the same
// fallback the web client uses when the viewport is too narrow for the
// diagram, which a terminal always is.
func renderReport(report *flow.Report, window string) {
	diagram := sankey.Layout(report.Nodes, report.Links, sankey.Options{ContainerWidth: 1})

	s := report.Summary
	fmt.Println(headerStyle.Render(fmt.Sprintf("Cash flow (%s)", window)))
	fmt.Println(incomeStyle.Render(fmt.Sprintf("  income   %10.2f", s.IncomeTotal)))
	fmt.Println(expenseStyle.Render(fmt.Sprintf("  expenses %10.2f", s.ExpenseTotal)))
	fmt.Printf("  net      %10.2f\n", s.NetIncome)
	if s.Shortfall > 0 {
		fmt.Println(expenseStyle.Render(fmt.Sprintf("  shortfall %9.2f", s.Shortfall)))
	}
	if s.Savings > 0 {
		fmt.Println(savingsStyle.Render(fmt.Sprintf("  savings  %10.2f", s.Savings)))
	}
	fmt.Println()

	columnTitles := map[int]string{0: "In", 1: "Through", 2: "Out", 3: "Goals"}
	for _, col := range diagram.Columns {
		title := columnTitles[col.Column]
		if title == "" {
			title = fmt.Sprintf("Stage %d", col.Column)
		}
		fmt.Println(headerStyle.Render(title))
		for _, n := range col.Nodes {
			line := fmt.Sprintf("  %-28s %10.2f", n.Label, n.Value)
			if n.Subtitle != "" {
				line += " " + mutedStyle.Render(n.Subtitle)
			}
			fmt.Println(line)
		}
	}
}

func printResults(results []*importer.Result) {
	for _, r := range results {
		line := fmt.Sprintf("%s -> %s : %d added, %d duplicate(s)", r.File, r.AccountName, r.Added, r.Skipped)
		if r.CreatedAccount {
			fmt.Println(incomeStyle.Render("+ " + line + " (new account)"))
		} else {
			fmt.Println(mutedStyle.Render("= " + line))
		}
	}
}

func init() {
	reportCmd.Flags().String("window", "", "Date window: 30d, 90d, 6m, 12m or all")
	reportCmd.Flags().String("dimension", "", "Group by: category, account or description")
	reportCmd.Flags().Int("max-groups", 0, "Maximum breakdown groups per side")
	reportCmd.Flags().StringSlice("accounts", nil, "Limit to specific account ids")
	reportCmd.Flags().Bool("dump", false, "Pretty-print the raw report structure")
	reportCmd.Flags().Bool("json", false, "Emit the report as JSON")
}
