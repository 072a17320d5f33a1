// Package budget provides the durable category→budget mapping and budget
// status computation. Budgets live in a sqlite table keyed uniquely by
// category name; at most one budget exists per category.
package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Store is the budget ledger backed by sqlite.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Status describes how actual spend compares to a category's budget.
// PercentageUsed is capped at 100.
type Status struct {
	HasBudget      bool
	BudgetAmount   decimal.Decimal
	Spent          decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed float64
}

// NewStore opens (creating if needed) the budget database at dbPath and
// migrates its schema.
func NewStore(dbPath string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func validPeriod(period string) bool {
	return period == models.PeriodMonthly || period == models.PeriodYearly
}

// Set creates or replaces the budget for a category.
func (s *Store) Set(ctx context.Context, category string, amount decimal.Decimal, period string) error {
	if strings.TrimSpace(category) == "" {
		return &parsererror.ValidationError{Field: "category name", Value: category, Reason: "must not be empty"}
	}
	// sqlite ignores VARCHAR widths, so the column bound is enforced here.
	if len(category) > models.MaxCategoryNameLength {
		return &parsererror.ValidationError{Field: "category name", Value: category, Reason: fmt.Sprintf("must not exceed %d characters", models.MaxCategoryNameLength)}
	}
	if amount.IsNegative() {
		return &parsererror.ValidationError{Field: "amount", Value: amount.String(), Reason: "must not be negative"}
	}
	if !validPeriod(period) {
		return &parsererror.ValidationError{Field: "period", Value: period, Reason: "must be monthly or yearly"}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category, amount, period)
		VALUES (?, ?, ?)
		ON CONFLICT (category)
		DO UPDATE SET amount = excluded.amount, period = excluded.period;
	`, category, amount.String(), period)
	if err != nil {
		return &parsererror.PersistenceError{Store: "budget", Op: "set", Err: err}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: "amount", Value: amount.String()},
		logging.Field{Key: "period", Value: period},
	).Info("Budget set")
	return nil
}

// Get returns the budget for a category, or ok=false when none is set.
func (s *Store) Get(ctx context.Context, category string) (models.Budget, bool, error) {
	var amountStr, period string
	err := s.db.QueryRowContext(ctx,
		"SELECT amount, period FROM budgets WHERE category = ?", category,
	).Scan(&amountStr, &period)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Budget{}, false, nil
	}
	if err != nil {
		return models.Budget{}, false, &parsererror.PersistenceError{Store: "budget", Op: "get", Err: err}
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return models.Budget{}, false, &parsererror.PersistenceError{Store: "budget", Op: "decode", Err: err}
	}
	return models.Budget{Category: category, Amount: amount, Period: period}, true, nil
}

// All returns every budget, ordered by category name.
func (s *Store) All(ctx context.Context) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount, period FROM budgets ORDER BY category")
	if err != nil {
		return nil, &parsererror.PersistenceError{Store: "budget", Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var budgets []models.Budget
	for rows.Next() {
		var category, amountStr, period string
		if err := rows.Scan(&category, &amountStr, &period); err != nil {
			return nil, &parsererror.PersistenceError{Store: "budget", Op: "scan", Err: err}
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, &parsererror.PersistenceError{Store: "budget", Op: "decode", Err: err}
		}
		budgets = append(budgets, models.Budget{Category: category, Amount: amount, Period: period})
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.PersistenceError{Store: "budget", Op: "list", Err: err}
	}
	return budgets, nil
}

// Remove deletes the budget for a category. Removing a category with no
// budget is a validation failure, not a persistence one.
func (s *Store) Remove(ctx context.Context, category string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE category = ?", category)
	if err != nil {
		return &parsererror.PersistenceError{Store: "budget", Op: "remove", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &parsererror.PersistenceError{Store: "budget", Op: "remove", Err: err}
	}
	if affected == 0 {
		return &parsererror.ValidationError{Field: "category name", Value: category, Reason: "no budget set"}
	}

	s.logger.WithField(logging.FieldCategory, category).Info("Budget removed")
	return nil
}

// Status computes the budget status for a category given actual spend.
//
// With no budget set: HasBudget=false and PercentageUsed is 100 when spent
// is positive, 0 otherwise. With budget B: Remaining = B - spent and
// PercentageUsed = min(spent/B*100, 100); a zero budget reads as 100% used.
func (s *Store) Status(ctx context.Context, category string, spent decimal.Decimal) (Status, error) {
	b, ok, err := s.Get(ctx, category)
	if err != nil {
		return Status{}, err
	}

	if !ok {
		pct := 0.0
		if spent.IsPositive() {
			pct = 100.0
		}
		return Status{
			HasBudget:      false,
			BudgetAmount:   decimal.Zero,
			Spent:          spent,
			Remaining:      decimal.Zero,
			PercentageUsed: pct,
		}, nil
	}

	pct := 100.0
	if b.Amount.IsPositive() {
		ratio, _ := spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Float64()
		if ratio < 100.0 {
			pct = ratio
		}
	}

	return Status{
		HasBudget:      true,
		BudgetAmount:   b.Amount,
		Spent:          spent,
		Remaining:      b.Amount.Sub(spent),
		PercentageUsed: pct,
	}, nil
}
