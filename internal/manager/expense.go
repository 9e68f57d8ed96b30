package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"duitku/internal/core"
	"duitku/internal/history"
	"duitku/internal/log"
	"duitku/internal/stats"
	"duitku/internal/store"
)

// ExpenseManager owns the expense collection. Expenses are immutable
// once created: there is no update operation, only add and delete.
type ExpenseManager struct {
	mu       sync.Mutex
	col      *store.Collection[core.Expense]
	history  *history.Logger
	logger   *log.Logger
	expenses []core.Expense
}

func NewExpenseManager(ctx context.Context, kv store.KV, hist *history.Logger, logger *log.Logger) *ExpenseManager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	col := store.NewCollection[core.Expense](kv, store.KeyExpenses, logger)
	return &ExpenseManager{
		col:      col,
		history:  hist,
		logger:   logger.WithComponent(log.ComponentExpense),
		expenses: col.Load(ctx),
	}
}

// Add validates and persists a new expense. The category and source are
// embedded as-is: they are value snapshots taken now, not references.
// Returns the stored expense with its assigned id and creation time.
func (m *ExpenseManager) Add(ctx context.Context, draft core.Expense) (core.Expense, error) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}
	draft.Source.Icon = draft.Source.Type.Icon()

	if err := draft.Validate(); err != nil {
		return core.Expense{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated := append(append([]core.Expense{}, m.expenses...), draft)
	if err := m.col.Save(ctx, updated); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	m.expenses = updated

	if err := m.history.LogExpenseCreated(ctx, draft); err != nil {
		m.logger.WarnContext(ctx, "Expense persisted but history entry failed",
			log.FieldOperation, log.OpCreate, log.FieldEntityID, draft.ID, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Expense added",
		log.FieldOperation, log.OpCreate,
		log.FieldEntityID, draft.ID,
		log.FieldAmount, draft.Amount.Rupiah)
	return draft, nil
}

// Delete removes the expense with the given id. A nonexistent id is a
// guarded no-op: nothing is persisted and no history entry is emitted.
// Returns whether an expense was actually removed.
func (m *ExpenseManager) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, e := range m.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	deleted := m.expenses[idx]
	updated := append(append([]core.Expense{}, m.expenses[:idx]...), m.expenses[idx+1:]...)
	if err := m.col.Save(ctx, updated); err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	m.expenses = updated

	if err := m.history.LogExpenseDeleted(ctx, deleted); err != nil {
		m.logger.WarnContext(ctx, "Expense deleted but history entry failed",
			log.FieldOperation, log.OpDelete, log.FieldEntityID, id, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete, log.FieldEntityID, id)
	return true, nil
}

// Expenses returns a snapshot copy of the collection, insertion order.
func (m *ExpenseManager) Expenses() []core.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Expense, len(m.expenses))
	copy(out, m.expenses)
	return out
}

// Refresh re-reads the collection from the store.
func (m *ExpenseManager) Refresh(ctx context.Context) {
	loaded := m.col.Load(ctx)
	m.mu.Lock()
	m.expenses = loaded
	m.mu.Unlock()
}

// Dashboard recomputes the dashboard view at ref. Never cached.
func (m *ExpenseManager) Dashboard(ref time.Time, categories []core.Category, sources []core.Source) core.DashboardStats {
	return stats.ComputeDashboardStats(m.Expenses(), ref, categories, sources)
}

// Filtered returns the time-windowed, optionally narrowed view, newest
// first.
func (m *ExpenseManager) Filtered(tf stats.TimeFrame, categoryID, sourceID string, ref time.Time) []core.Expense {
	return stats.FilterExpenses(m.Expenses(), tf, categoryID, sourceID, ref)
}

// TrendSeries returns the chart series for the trend view at ref.
func (m *ExpenseManager) TrendSeries(period stats.TimeFrame, ref time.Time) []core.SeriesPoint {
	return stats.BuildTrendSeries(m.Expenses(), period, ref)
}

// CategorySeries returns the per-category-name chart series.
func (m *ExpenseManager) CategorySeries() []core.SeriesPoint {
	return stats.BuildCategorySeries(m.Expenses())
}
