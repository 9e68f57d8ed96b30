package store

import (
	"context"
	"encoding/json"
	"fmt"

	"duitku/internal/log"
)

// Collection binds one named record set to its KV key. Load fails soft:
// a missing, unreadable or corrupt value yields an empty collection and
// a diagnostic log entry, never a hard failure for the caller.
type Collection[T any] struct {
	kv     KV
	key    string
	logger *log.Logger
}

func NewCollection[T any](kv KV, key string, logger *log.Logger) *Collection[T] {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Collection[T]{kv: kv, key: key, logger: logger.WithComponent(log.ComponentStore)}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored records, or an empty slice when the key is
// absent or its value cannot be decoded.
func (c *Collection[T]) Load(ctx context.Context) []T {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		c.logger.WarnContext(ctx, "Store read failed, returning empty collection",
			log.FieldKey, c.key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.WarnContext(ctx, "Stored collection is corrupt, returning empty collection",
			log.FieldKey, c.key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save overwrites the stored record set with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.kv.Put(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// Clear removes the record set entirely.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.kv.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("clear %s: %w", c.key, err)
	}
	return nil
}

// Seed writes defaults only when the key is absent. It is an explicit
// initialization step, called once at startup, never hidden in a read
// path. Returns true when the defaults were written.
func (c *Collection[T]) Seed(ctx context.Context, defaults []T) (bool, error) {
	_, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return false, fmt.Errorf("check %s before seeding: %w", c.key, err)
	}
	if ok {
		return false, nil
	}
	if err := c.Save(ctx, defaults); err != nil {
		return false, err
	}
	c.logger.InfoContext(ctx, "Seeded collection with defaults",
		log.FieldKey, c.key, log.FieldOperation, log.OpSeed, log.FieldCount, len(defaults))
	return true, nil
}
