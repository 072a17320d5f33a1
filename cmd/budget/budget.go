// Package budget implements budget management commands.
package budget

import (
	"context"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/budget"
	"fjacquet/fincat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	amountFlag string
	periodFlag string
	spentFlag  string
)

// Cmd represents the budget command group.
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage per-category spending budgets",
}

var setCmd = &cobra.Command{
	Use:   "set <category>",
	Short: "Set or update the budget for a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(amountFlag)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.Set(context.Background(), args[0], amount, periodFlag); err != nil {
			return err
		}
		cmd.Println("Budget set successfully")
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all budgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		budgets, err := s.All(context.Background())
		if err != nil {
			return err
		}
		if len(budgets) == 0 {
			cmd.Println("No budgets set yet")
			return nil
		}
		for _, b := range budgets {
			cmd.Printf("%-25s %10s  %s\n", b.Category, b.Amount.StringFixed(2), b.Period)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <category>",
	Short: "Remove the budget for a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.Remove(context.Background(), args[0]); err != nil {
			return err
		}
		cmd.Println("Budget removed successfully")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <category>",
	Short: "Show budget status for a category given actual spend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spent, err := decimal.NewFromString(spentFlag)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		status, err := s.Status(context.Background(), args[0], spent)
		if err != nil {
			return err
		}
		if !status.HasBudget {
			cmd.Printf("No budget set for %s (spent %s)\n", args[0], status.Spent.StringFixed(2))
			return nil
		}
		cmd.Printf("Budget:    %s\n", status.BudgetAmount.StringFixed(2))
		cmd.Printf("Spent:     %s\n", status.Spent.StringFixed(2))
		cmd.Printf("Remaining: %s\n", status.Remaining.StringFixed(2))
		cmd.Printf("Used:      %.1f%%\n", status.PercentageUsed)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVarP(&amountFlag, "amount", "a", "", "Budget amount")
	setCmd.Flags().StringVarP(&periodFlag, "period", "p", models.PeriodMonthly, "Budget period (monthly or yearly)")
	_ = setCmd.MarkFlagRequired("amount")

	statusCmd.Flags().StringVarP(&spentFlag, "spent", "s", "0", "Actual spend to compare against the budget")

	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(statusCmd)
}

func openStore() (*budget.Store, error) {
	return budget.NewStore(root.Cfg.BudgetDBPath(), root.Logger())
}
