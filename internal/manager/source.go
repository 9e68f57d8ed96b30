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

// SourceManager owns the payment source collection. Same embedding and
// no-cascade rules as categories.
type SourceManager struct {
	mu      sync.Mutex
	col     *store.Collection[core.Source]
	history *history.Logger
	logger  *log.Logger
	sources []core.Source
}

func NewSourceManager(ctx context.Context, kv store.KV, hist *history.Logger, logger *log.Logger) *SourceManager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	col := store.NewCollection[core.Source](kv, store.KeySources, logger)
	return &SourceManager{
		col:     col,
		history: hist,
		logger:  logger.WithComponent(log.ComponentSource),
		sources: col.Load(ctx),
	}
}

// Seed writes the default set when the collection key is absent.
func (m *SourceManager) Seed(ctx context.Context, defaults []core.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seeded, err := m.col.Seed(ctx, defaults)
	if err != nil {
		return fmt.Errorf("seed sources: %w", err)
	}
	if seeded {
		m.sources = append([]core.Source{}, defaults...)
	}
	return nil
}

func (m *SourceManager) Add(ctx context.Context, draft core.Source) (core.Source, error) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	draft.Icon = draft.Type.Icon()
	if err := draft.Validate(); err != nil {
		return core.Source{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated := append(append([]core.Source{}, m.sources...), draft)
	if err := m.col.Save(ctx, updated); err != nil {
		return core.Source{}, fmt.Errorf("add source: %w", err)
	}
	m.sources = updated

	if err := m.history.LogSourceCreated(ctx, draft); err != nil {
		m.logger.WarnContext(ctx, "Source persisted but history entry failed",
			log.FieldOperation, log.OpCreate, log.FieldEntityID, draft.ID, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Source added",
		log.FieldOperation, log.OpCreate, log.FieldEntityID, draft.ID, log.FieldEntityName, draft.Name)
	return draft, nil
}

// Update replaces the source with the same id, logging the pre-mutation
// snapshot.
func (m *SourceManager) Update(ctx context.Context, updated core.Source) error {
	updated.Icon = updated.Type.Icon()
	if err := updated.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, s := range m.sources {
		if s.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	old := m.sources[idx]
	next := append([]core.Source{}, m.sources...)
	next[idx] = updated
	if err := m.col.Save(ctx, next); err != nil {
		return fmt.Errorf("update source: %w", err)
	}
	m.sources = next

	if err := m.history.LogSourceUpdated(ctx, old, updated); err != nil {
		m.logger.WarnContext(ctx, "Source persisted but history entry failed",
			log.FieldOperation, log.OpUpdate, log.FieldEntityID, updated.ID, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Source updated",
		log.FieldOperation, log.OpUpdate, log.FieldEntityID, updated.ID, log.FieldEntityName, updated.Name)
	return nil
}

// Delete removes the source with the given id. Nonexistent ids are a
// guarded no-op with no history emission.
func (m *SourceManager) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, s := range m.sources {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	deleted := m.sources[idx]
	updated := append(append([]core.Source{}, m.sources[:idx]...), m.sources[idx+1:]...)
	if err := m.col.Save(ctx, updated); err != nil {
		return false, fmt.Errorf("delete source: %w", err)
	}
	m.sources = updated

	if err := m.history.LogSourceDeleted(ctx, deleted); err != nil {
		m.logger.WarnContext(ctx, "Source deleted but history entry failed",
			log.FieldOperation, log.OpDelete, log.FieldEntityID, id, log.FieldError, err)
	}

	m.logger.InfoContext(ctx, "Source deleted",
		log.FieldOperation, log.OpDelete, log.FieldEntityID, id, log.FieldEntityName, deleted.Name)
	return true, nil
}

// Sources returns a snapshot copy of the collection.
func (m *SourceManager) Sources() []core.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Source, len(m.sources))
	copy(out, m.sources)
	return out
}

// Refresh re-reads the collection from the store.
func (m *SourceManager) Refresh(ctx context.Context) {
	loaded := m.col.Load(ctx)
	m.mu.Lock()
	m.sources = loaded
	m.mu.Unlock()
}
