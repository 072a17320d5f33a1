// Package categorize implements the main pipeline command: ingest a
// transaction file, categorize every row, and write the result as CSV.
package categorize

import (
	"context"
	"fmt"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/budget"
	"fjacquet/fincat/internal/classifier"
	"fjacquet/fincat/internal/engine"
	"fjacquet/fincat/internal/export"
	"fjacquet/fincat/internal/ingest"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/store"
	"fjacquet/fincat/internal/summary"

	"github.com/spf13/cobra"
)

var (
	inputFile   string
	outputFile  string
	showSummary bool
	rulesOnly   bool
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize transactions from a file",
	Long: `Ingest a CSV, TSV or TXT transaction file (columns: Date, Description,
Amount), categorize every transaction using keyword rules with a classifier
fallback, and write the categorized table to a CSV file.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input transaction file (CSV, TSV or TXT)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file")
	Cmd.Flags().BoolVarP(&showSummary, "summary", "s", false, "Print a spending summary with budget status")
	Cmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "Skip the classifier step, use keyword rules only")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	logger := root.Logger()

	transactions, err := ingest.NewReader(logger).ReadFile(inputFile)
	if err != nil {
		return err
	}

	categoryStore := store.NewCategoryStore(root.Cfg.CategoriesPath(), logger)

	var clf engine.Classifier
	if !rulesOnly {
		clf = classifier.New(root.Cfg.ModelPath(), logger)
	}

	eng := engine.New(categoryStore, clf, logger,
		engine.WithConfidenceThreshold(root.Cfg.Categorization.ConfidenceThreshold),
		engine.WithMinTrainingRows(root.Cfg.Categorization.MinTrainingRows),
	)
	categorized := eng.Categorize(transactions)

	if err := export.WriteCSV(categorized, outputFile, logger); err != nil {
		return err
	}

	if showSummary {
		if err := printSummary(cmd, categorized); err != nil {
			return err
		}
	}

	root.Log.Infof("Categorized %d transactions", len(categorized))
	return nil
}

func printSummary(cmd *cobra.Command, categorized []models.Transaction) error {
	logger := root.Logger()

	budgetStore, err := budget.NewStore(root.Cfg.BudgetDBPath(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = budgetStore.Close() }()

	s := summary.Build(categorized)
	cmd.Printf("Total spent: %s\n", s.TotalSpent.StringFixed(2))
	cmd.Printf("Transactions: %d\n", s.TransactionCount)
	if s.DateFrom != "" {
		cmd.Printf("Date range: %s to %s\n", s.DateFrom, s.DateTo)
	}

	statuses, err := s.WithBudgets(context.Background(), budgetStore)
	if err != nil {
		return err
	}
	for _, cb := range statuses {
		line := fmt.Sprintf("%-25s %10s", cb.Category, cb.Spent.StringFixed(2))
		if cb.Status.HasBudget {
			line += fmt.Sprintf("  budget %s, remaining %s, %.1f%% used",
				cb.Status.BudgetAmount.StringFixed(2),
				cb.Status.Remaining.StringFixed(2),
				cb.Status.PercentageUsed)
		}
		cmd.Println(line)
	}
	return nil
}
