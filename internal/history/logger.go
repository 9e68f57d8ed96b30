// Package history records every entity mutation as an immutable,
// append-only audit trail. The log is newest-first, bounded to the most
// recent MaxEntries records, and supports exactly two whole-log
// operations: append and clear. Entries are never updated in place.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"duitku/internal/core"
	"duitku/internal/log"
	"duitku/internal/store"
)

// MaxEntries bounds the log; the oldest entries fall off the tail first.
const MaxEntries = 1000

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	EntityExpense  EntityType = "expense"
	EntityCategory EntityType = "category"
	EntitySource   EntityType = "source"
)

type (
	Action     string
	EntityType string

	// Entry is one immutable audit record. OldData/NewData hold the
	// pre- and post-mutation snapshots as raw JSON.
	Entry struct {
		ID         string          `json:"id"`
		Action     Action          `json:"action"`
		EntityType EntityType      `json:"entityType"`
		EntityID   string          `json:"entityId"`
		EntityName string          `json:"entityName"`
		Details    string          `json:"details"`
		OldData    json.RawMessage `json:"oldData,omitempty"`
		NewData    json.RawMessage `json:"newData,omitempty"`
		Timestamp  time.Time       `json:"timestamp"`
		Amount     int64           `json:"amount,omitempty"`
	}
)

// Logger owns the history collection. Safe for concurrent use as long
// as the callers funnel through the domain managers, which serialize
// their mutations.
type Logger struct {
	col    *store.Collection[Entry]
	logger *log.Logger
	now    func() time.Time
}

func NewLogger(kv store.KV, logger *log.Logger) *Logger {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Logger{
		col:    store.NewCollection[Entry](kv, store.KeyHistory, logger),
		logger: logger.WithComponent(log.ComponentHistory),
		now:    time.Now,
	}
}

// Append assigns a fresh id and timestamp to the draft entry, prepends
// it (newest first), truncates the log to MaxEntries and persists the
// whole log.
func (l *Logger) Append(ctx context.Context, draft Entry) error {
	draft.ID = "log-" + uuid.NewString()
	draft.Timestamp = l.now().UTC()

	entries := l.col.Load(ctx)
	entries = append([]Entry{draft}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	if err := l.col.Save(ctx, entries); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}

	l.logger.DebugContext(ctx, "History entry appended",
		log.FieldOperation, log.OpAppend,
		log.FieldEntityType, string(draft.EntityType),
		log.FieldEntityID, draft.EntityID)
	return nil
}

// Load returns the log newest-first. A corrupt or unreadable store
// yields an empty log, never an error.
func (l *Logger) Load(ctx context.Context) []Entry {
	return l.col.Load(ctx)
}

// Clear deletes the entire log. Irreversible.
func (l *Logger) Clear(ctx context.Context) error {
	if err := l.col.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	l.logger.InfoContext(ctx, "History log cleared", log.FieldOperation, log.OpClear)
	return nil
}

func snapshot(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

// LogExpenseCreated records a freshly persisted expense.
func (l *Logger) LogExpenseCreated(ctx context.Context, e core.Expense) error {
	return l.Append(ctx, Entry{
		Action:     ActionCreate,
		EntityType: EntityExpense,
		EntityID:   e.ID,
		EntityName: fmt.Sprintf("%s - %d", e.Category.Name, e.Amount.Rupiah),
		Details:    fmt.Sprintf("Added expense of %s for %s", e.Amount.Format(), e.Category.Name),
		NewData:    snapshot(e),
		Amount:     e.Amount.Rupiah,
	})
}

// LogExpenseDeleted records a deleted expense using its last snapshot.
func (l *Logger) LogExpenseDeleted(ctx context.Context, e core.Expense) error {
	return l.Append(ctx, Entry{
		Action:     ActionDelete,
		EntityType: EntityExpense,
		EntityID:   e.ID,
		EntityName: fmt.Sprintf("%s - %d", e.Category.Name, e.Amount.Rupiah),
		Details:    fmt.Sprintf("Deleted expense of %s for %s", e.Amount.Format(), e.Category.Name),
		OldData:    snapshot(e),
		Amount:     e.Amount.Rupiah,
	})
}

func (l *Logger) LogCategoryCreated(ctx context.Context, c core.Category) error {
	return l.Append(ctx, Entry{
		Action:     ActionCreate,
		EntityType: EntityCategory,
		EntityID:   c.ID,
		EntityName: c.Name,
		Details:    fmt.Sprintf("Created new category %q with icon %s", c.Name, c.Icon),
		NewData:    snapshot(c),
	})
}

func (l *Logger) LogCategoryUpdated(ctx context.Context, oldCat, newCat core.Category) error {
	return l.Append(ctx, Entry{
		Action:     ActionUpdate,
		EntityType: EntityCategory,
		EntityID:   newCat.ID,
		EntityName: newCat.Name,
		Details:    fmt.Sprintf("Updated category %q to %q", oldCat.Name, newCat.Name),
		OldData:    snapshot(oldCat),
		NewData:    snapshot(newCat),
	})
}

func (l *Logger) LogCategoryDeleted(ctx context.Context, c core.Category) error {
	return l.Append(ctx, Entry{
		Action:     ActionDelete,
		EntityType: EntityCategory,
		EntityID:   c.ID,
		EntityName: c.Name,
		Details:    fmt.Sprintf("Deleted category %q", c.Name),
		OldData:    snapshot(c),
	})
}

func (l *Logger) LogSourceCreated(ctx context.Context, s core.Source) error {
	return l.Append(ctx, Entry{
		Action:     ActionCreate,
		EntityType: EntitySource,
		EntityID:   s.ID,
		EntityName: s.Name,
		Details:    fmt.Sprintf("Created new payment source %q (%s)", s.Name, s.Type),
		NewData:    snapshot(s),
	})
}

func (l *Logger) LogSourceUpdated(ctx context.Context, oldSrc, newSrc core.Source) error {
	return l.Append(ctx, Entry{
		Action:     ActionUpdate,
		EntityType: EntitySource,
		EntityID:   newSrc.ID,
		EntityName: newSrc.Name,
		Details:    fmt.Sprintf("Updated payment source %q to %q", oldSrc.Name, newSrc.Name),
		OldData:    snapshot(oldSrc),
		NewData:    snapshot(newSrc),
	})
}

func (l *Logger) LogSourceDeleted(ctx context.Context, s core.Source) error {
	return l.Append(ctx, Entry{
		Action:     ActionDelete,
		EntityType: EntitySource,
		EntityID:   s.ID,
		EntityName: s.Name,
		Details:    fmt.Sprintf("Deleted payment source %q", s.Name),
		OldData:    snapshot(s),
	})
}
