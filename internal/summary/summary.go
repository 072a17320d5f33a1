// Package summary computes spending statistics over categorized transactions.
package summary

import (
	"context"
	"sort"

	"fjacquet/fincat/internal/budget"
	"fjacquet/fincat/internal/models"

	"github.com/shopspring/decimal"
)

// Summary holds aggregate spending statistics for one transaction set.
// Transactions carrying the unparsable amount sentinel count toward
// TransactionCount but are skipped in the monetary totals.
type Summary struct {
	TotalSpent       decimal.Decimal
	ByCategory       map[string]decimal.Decimal
	TransactionCount int
	DateFrom         string
	DateTo           string
}

// CategoryBudget pairs a category's spend with its budget status.
type CategoryBudget struct {
	Category string
	Spent    decimal.Decimal
	Status   budget.Status
}

// Build computes the spending summary for the given transactions.
func Build(transactions []models.Transaction) Summary {
	s := Summary{
		ByCategory:       make(map[string]decimal.Decimal),
		TransactionCount: len(transactions),
	}

	for _, tx := range transactions {
		if tx.Date != "" && (s.DateFrom == "" || tx.Date < s.DateFrom) {
			s.DateFrom = tx.Date
		}
		if tx.Date > s.DateTo {
			s.DateTo = tx.Date
		}
		if !tx.HasAmount() {
			continue
		}
		s.TotalSpent = s.TotalSpent.Add(tx.Amount.Decimal)
		s.ByCategory[tx.Category] = s.ByCategory[tx.Category].Add(tx.Amount.Decimal)
	}
	return s
}

// Categories returns the summary's category names in alphabetical order.
func (s Summary) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithBudgets computes the budget status of every category appearing in the
// summary, in alphabetical order.
func (s Summary) WithBudgets(ctx context.Context, store *budget.Store) ([]CategoryBudget, error) {
	out := make([]CategoryBudget, 0, len(s.ByCategory))
	for _, name := range s.Categories() {
		spent := s.ByCategory[name]
		status, err := store.Status(ctx, name, spent)
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryBudget{Category: name, Spent: spent, Status: status})
	}
	return out, nil
}
