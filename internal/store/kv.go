// Package store persists the application's collections against a plain
// key-value backend. Each collection (expenses, categories, sources,
// history) lives under its own key as one self-describing JSON record
// set, written whole on every save.
package store

import "context"

// Storage keys for the four independently-owned collections.
const (
	KeyExpenses   = "expenses"
	KeyCategories = "categories"
	KeySources    = "sources"
	KeyHistory    = "history"
)

// KV is the persistence boundary. Implementations must be safe for
// concurrent use; each key is read-then-overwritten independently and
// the last writer wins.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores the value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
