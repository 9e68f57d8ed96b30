package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"duitku/internal/core"
	"duitku/internal/history"
	"duitku/internal/log"
	"duitku/internal/store"
)

// CategoryManager owns the category collection. Deleting a category
// never cascades: expenses keep the snapshot they embedded at creation.
type CategoryManager struct {
	mu         sync.Mutex
	col        *store.Collection[core.Category]
	history    *history.Logger
	logger     *log.Logger
	categories []core.Category
}

func NewCategoryManager(ctx context.Context, kv store.KV, hist *history.Logger, logger *log.Logger) *CategoryManager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	col := store.NewCollection[core.Category](kv, store.KeyCategories, logger)
	return &CategoryManager{
		col:        col,
		history:    hist,
		logger:     logger.WithComponent(log.ComponentCategory),
		categories: col.Load(ctx),
	}
}

// Seed writes the default set when the collection key is absent.
func (m *CategoryManager) Seed(ctx context.Context, defaults []core.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seeded, err := m.col.Seed(ctx, defaults)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if seeded {
		m.categories = append([]core.Category{}, defaults...)
	}
	return nil
}

func (m *CategoryManager) Add(ctx context.Context, draft core.Category) (core.Category, error) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if err := draft.Validate(); err != nil {
		return core.Category{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated := append(append([]core.Category{}, m.categories...), draft)
	if err := m.col.Save(ctx, updated); err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	m.categories = updated

	if err := m.history.LogCategoryCreated(ctx, draft); err != nil {
		m.logger.WarnContext(ctx, "Category persisted but history entry failed",
			log.FieldOperation, log.OpCreate, log.FieldEntityID, draft.ID, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Category added",
		log.FieldOperation, log.OpCreate, log.FieldEntityID, draft.ID, log.FieldEntityName, draft.Name)
	return draft, nil
}

// Update replaces the category with the same id. The history entry
// records the pre-mutation snapshot alongside the new value.
func (m *CategoryManager) Update(ctx context.Context, updated core.Category) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, c := range m.categories {
		if c.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	old := m.categories[idx]
	next := append([]core.Category{}, m.categories...)
	next[idx] = updated
	if err := m.col.Save(ctx, next); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	m.categories = next

	if err := m.history.LogCategoryUpdated(ctx, old, updated); err != nil {
		m.logger.WarnContext(ctx, "Category persisted but history entry failed",
			log.FieldOperation, log.OpUpdate, log.FieldEntityID, updated.ID, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Category updated",
		log.FieldOperation, log.OpUpdate, log.FieldEntityID, updated.ID, log.FieldEntityName, updated.Name)
	return nil
}

// Delete removes the category with the given id. Nonexistent ids are a
// guarded no-op with no history emission. Expenses embedding the
// category are untouched.
func (m *CategoryManager) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, c := range m.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	deleted := m.categories[idx]
	updated := append(append([]core.Category{}, m.categories[:idx]...), m.categories[idx+1:]...)
	if err := m.col.Save(ctx, updated); err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	m.categories = updated

	if err := m.history.LogCategoryDeleted(ctx, deleted); err != nil {
		m.logger.WarnContext(ctx, "Category deleted but history entry failed",
			log.FieldOperation, log.OpDelete, log.FieldEntityID, id, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Category deleted",
		log.FieldOperation, log.OpDelete, log.FieldEntityID, id, log.FieldEntityName, deleted.Name)
	return true, nil
}

// Categories returns a snapshot copy of the collection.
func (m *CategoryManager) Categories() []core.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Category, len(m.categories))
	copy(out, m.categories)
	return out
}

// Refresh re-reads the collection from the store.
func (m *CategoryManager) Refresh(ctx context.Context) {
	loaded := m.col.Load(ctx)
	m.mu.Lock()
	m.categories = loaded
	m.mu.Unlock()
}
