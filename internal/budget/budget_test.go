package budget

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/fincat/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "budgets.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "Food", dec("500.00"), "monthly"))

	b, ok, err := store.Get(ctx, "Food")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Food", b.Category)
	assert.True(t, b.Amount.Equal(dec("500.00")))
	assert.Equal(t, "monthly", b.Period)
}

func TestSet_ReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "Food", dec("500.00"), "monthly"))
	require.NoError(t, store.Set(ctx, "Food", dec("750.50"), "yearly"))

	b, ok, err := store.Get(ctx, "Food")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, b.Amount.Equal(dec("750.50")))
	assert.Equal(t, "yearly", b.Period)

	budgets, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, budgets, 1)
}

func TestSet_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		category string
		amount   decimal.Decimal
		period   string
	}{
		{name: "empty category", category: "  ", amount: dec("100"), period: "monthly"},
		{name: "over-long category", category: strings.Repeat("x", 51), amount: dec("100"), period: "monthly"},
		{name: "negative amount", category: "Food", amount: dec("-1"), period: "monthly"},
		{name: "bad period", category: "Food", amount: dec("100"), period: "weekly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Set(ctx, tt.category, tt.amount, tt.period)
			var vErr *parsererror.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestSet_ZeroAmountAllowed(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Set(context.Background(), "Food", decimal.Zero, "monthly"))
}

func TestGet_Missing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAll_OrderedByCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "Travel", dec("300"), "monthly"))
	require.NoError(t, store.Set(ctx, "Food", dec("500"), "monthly"))
	require.NoError(t, store.Set(ctx, "Gas", dec("150"), "monthly"))

	budgets, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.Equal(t, "Food", budgets[0].Category)
	assert.Equal(t, "Gas", budgets[1].Category)
	assert.Equal(t, "Travel", budgets[2].Category)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "Food", dec("500"), "monthly"))
	require.NoError(t, store.Remove(ctx, "Food"))

	_, ok, err := store.Get(ctx, "Food")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemove_NoBudgetSet(t *testing.T) {
	store := newTestStore(t)

	err := store.Remove(context.Background(), "Nonexistent")
	var vErr *parsererror.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "Food", dec("500"), "monthly"))
	require.NoError(t, store.Set(ctx, "Zero", dec("0"), "monthly"))

	tests := []struct {
		name       string
		category   string
		spent      string
		hasBudget  bool
		remaining  string
		percentage float64
	}{
		{
			name:       "under budget",
			category:   "Food",
			spent:      "125",
			hasBudget:  true,
			remaining:  "375",
			percentage: 25.0,
		},
		{
			name:       "over budget capped at 100",
			category:   "Food",
			spent:      "600",
			hasBudget:  true,
			remaining:  "-100",
			percentage: 100.0,
		},
		{
			name:       "zero budget reads fully used",
			category:   "Zero",
			spent:      "10",
			hasBudget:  true,
			remaining:  "-10",
			percentage: 100.0,
		},
		{
			name:       "no budget with spend",
			category:   "Nonexistent",
			spent:      "50",
			hasBudget:  false,
			remaining:  "0",
			percentage: 100.0,
		},
		{
			name:       "no budget without spend",
			category:   "Nonexistent",
			spent:      "0",
			hasBudget:  false,
			remaining:  "0",
			percentage: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := store.Status(ctx, tt.category, dec(tt.spent))
			require.NoError(t, err)
			assert.Equal(t, tt.hasBudget, status.HasBudget)
			assert.True(t, status.Remaining.Equal(dec(tt.remaining)),
				"remaining: got %s, want %s", status.Remaining, tt.remaining)
			assert.InDelta(t, tt.percentage, status.PercentageUsed, 0.001)
		})
	}
}

func TestPersistenceAcrossInstances(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budgets.db")
	ctx := context.Background()

	store1, err := NewStore(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, store1.Set(ctx, "Food", dec("500"), "monthly"))
	require.NoError(t, store1.Close())

	store2, err := NewStore(dbPath, nil)
	require.NoError(t, err)
	defer func() { _ = store2.Close() }()

	b, ok, err := store2.Get(ctx, "Food")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, b.Amount.Equal(dec("500")))
}
