package manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duitku/internal/core"
	"duitku/internal/history"
	"duitku/internal/stats"
	"duitku/internal/store"
)

type fixture struct {
	kv         *store.Memory
	history    *history.Logger
	expenses   *ExpenseManager
	categories *CategoryManager
	sources    *SourceManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemory()
	hist := history.NewLogger(kv, nil)
	return &fixture{
		kv:         kv,
		history:    hist,
		expenses:   NewExpenseManager(ctx, kv, hist, nil),
		categories: NewCategoryManager(ctx, kv, hist, nil),
		sources:    NewSourceManager(ctx, kv, hist, nil),
	}
}

func draftExpense(day int, amount int64) core.Expense {
	return core.Expense{
		Date:   core.NewDate(2024, 3, day),
		Amount: core.Money{Rupiah: amount},
		Category: core.Category{
			ID: "food-drinks", Name: "Food & Drinks", Icon: "🍽️", Color: "#FF6B6B",
		},
		Source: core.Source{
			ID: "cash", Name: "Cash", Type: core.Cash,
		},
	}
}

func TestExpenseAddPersistsAndLogsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	added, err := f.expenses.Add(ctx, draftExpense(5, 50000))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())
	assert.Equal(t, core.Cash.Icon(), added.Source.Icon)

	// Durable: a fresh manager over the same store sees it.
	reloaded := NewExpenseManager(ctx, f.kv, f.history, nil)
	require.Len(t, reloaded.Expenses(), 1)

	entries := f.history.Load(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ActionCreate, entries[0].Action)
	assert.Equal(t, history.EntityExpense, entries[0].EntityType)
	assert.Equal(t, added.ID, entries[0].EntityID)
	assert.Equal(t, int64(50000), entries[0].Amount)
}

func TestExpenseAddValidationWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bad := draftExpense(5, 0) // non-positive amount
	_, err := f.expenses.Add(ctx, bad)
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	missingCat := draftExpense(5, 1000)
	missingCat.Category = core.Category{}
	_, err = f.expenses.Add(ctx, missingCat)
	require.ErrorIs(t, err, core.ErrEmptyCategory)

	assert.Empty(t, f.expenses.Expenses())
	assert.Empty(t, f.history.Load(ctx))
}

func TestExpenseDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	added, err := f.expenses.Add(ctx, draftExpense(5, 50000))
	require.NoError(t, err)

	found, err := f.expenses.Delete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, f.expenses.Expenses())

	entries := f.history.Load(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, history.ActionDelete, entries[0].Action)
	assert.NotEmpty(t, entries[0].OldData)
}

func TestExpenseDeleteNonexistentIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	found, err := f.expenses.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, found)
	// Nothing to describe: no history entry.
	assert.Empty(t, f.history.Load(ctx))
}

func TestExpenseDerivedViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.expenses.Add(ctx, draftExpense(5, 50000))
	require.NoError(t, err)
	_, err = f.expenses.Add(ctx, draftExpense(10, 30000))
	require.NoError(t, err)

	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	dash := f.expenses.Dashboard(ref, f.categories.Categories(), f.sources.Sources())
	assert.Equal(t, int64(80000), dash.TotalThisMonth.Rupiah)
	assert.Equal(t, "Food & Drinks", dash.HighestCategory.Name)

	filtered := f.expenses.Filtered(stats.Month, "", "", ref)
	require.Len(t, filtered, 2)
	assert.Equal(t, core.NewDate(2024, 3, 10), filtered[0].Date)

	trend := f.expenses.TrendSeries(stats.Month, ref)
	assert.Len(t, trend, 31)

	byCat := f.expenses.CategorySeries()
	require.Len(t, byCat, 1)
	assert.Equal(t, int64(80000), byCat[0].Amount.Rupiah)
}

func TestExpenseRefreshSeesExternalWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Another manager over the same store adds an expense.
	other := NewExpenseManager(ctx, f.kv, f.history, nil)
	_, err := other.Add(ctx, draftExpense(5, 50000))
	require.NoError(t, err)

	assert.Empty(t, f.expenses.Expenses())
	f.expenses.Refresh(ctx)
	assert.Len(t, f.expenses.Expenses(), 1)
}
