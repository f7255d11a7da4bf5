package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/amielsh/centsible/pkg/bills"
	"github.com/amielsh/centsible/pkg/csv"
	"github.com/amielsh/centsible/pkg/models"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List tracked accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		accounts, err := st.Accounts()
		if err != nil {
			return err
		}
		for _, a := range accounts {
			fmt.Printf("%-40s %-10s %4d txs %12.2f  %s\n", a.ID, a.Type, len(a.Transactions), a.Balance(), a.Name)
		}
		return nil
	},
}

var accountsExportCmd = &cobra.Command{
	Use:   "export <account-id>",
	Short: "Write an account's normalized transactions as CSV to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		accounts, err := st.Accounts()
		if err != nil {
			return err
		}
		for _, a := range accounts {
			if a.ID != args[0] {
				continue
			}
			out, err := csv.Create(a.Transactions, nil)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		}
		return fmt.Errorf("account %s not found", args[0])
	},
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List savings goals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		goals, err := st.Goals()
		if err != nil {
			return err
		}
		for _, g := range goals {
			fmt.Printf("%-36s %s %-20s %10.2f / %-10.2f %5.1f%%\n", g.ID, g.Icon, g.Name, g.Saved, g.Target, g.Progress())
		}
		return nil
	},
}

var goalsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a savings goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		target, _ := cmd.Flags().GetFloat64("target")
		plan, _ := cmd.Flags().GetFloat64("plan")
		icon, _ := cmd.Flags().GetString("icon")

		goal := models.Goal{
			ID:          uuid.NewString(),
			Name:        args[0],
			Icon:        icon,
			Target:      target,
			MonthlyPlan: plan,
		}
		if err := st.PutGoal(goal); err != nil {
			return err
		}
		fmt.Println(goal.ID)
		return nil
	},
}

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List recurring bill templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		templates, err := st.Bills()
		if err != nil {
			return err
		}
		for _, b := range templates {
			fmt.Printf("%-36s %-8s %-9s %10.2f  %s\n", b.ID, b.Kind, b.Cadence, b.Amount, b.Label)
		}
		return nil
	},
}

var billsAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Create a recurring bill template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		amount, _ := cmd.Flags().GetFloat64("amount")
		kind, _ := cmd.Flags().GetString("kind")
		cadence, _ := cmd.Flags().GetString("cadence")
		start, _ := cmd.Flags().GetString("start")
		day, _ := cmd.Flags().GetInt("day")

		bill := models.Bill{
			ID:         uuid.NewString(),
			Label:      args[0],
			Amount:     amount,
			Kind:       models.BillKind(kind),
			Cadence:    models.Cadence(cadence),
			StartDate:  start,
			DayOfMonth: day,
		}
		if err := st.PutBill(bill); err != nil {
			return err
		}
		fmt.Println(bill.ID)
		return nil
	},
}

var billsDueCmd = &cobra.Command{
	Use:   "due <month>",
	Short: "Show due dates for a month (YYYY-MM)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		_, st, _, err := buildApp(cmd, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		templates, err := st.Bills()
		if err != nil {
			return err
		}
		dues, err := bills.ExpandMonth(templates, args[0])
		if err != nil {
			return err
		}
		for _, d := range dues {
			fmt.Printf("%s %-8s %10.2f  %s\n", d.Date.Format("2006-01-02"), d.Bill.Kind, d.Bill.Amount, d.Bill.Label)
		}
		return nil
	},
}

func init() {
	goalsAddCmd.Flags().Float64("target", 0, "Target amount")
	goalsAddCmd.Flags().Float64("plan", 0, "Planned monthly contribution")
	goalsAddCmd.Flags().String("icon", "", "Display icon")

	billsAddCmd.Flags().Float64("amount", 0, "Bill amount")
	billsAddCmd.Flags().String("kind", "expense", "income or expense")
	billsAddCmd.Flags().String("cadence", "monthly", "once, weekly, biweekly, monthly or yearly")
	billsAddCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	billsAddCmd.Flags().Int("day", 0, "Day of month for monthly bills")

	accountsCmd.AddCommand(accountsExportCmd)
	goalsCmd.AddCommand(goalsAddCmd)
	billsCmd.AddCommand(billsAddCmd)
	billsCmd.AddCommand(billsDueCmd)
}
