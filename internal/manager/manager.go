// Package manager exposes the CRUD operations the presentation layer
// calls. Each manager owns one collection and follows the same shape:
// validate, mutate the in-memory collection, persist the whole
// collection, then emit exactly one history entry describing the change.
//
// Persisting the collection and appending the history entry are two
// independent durable writes with no rollback: a history append failure
// after a successful save is logged and swallowed, never propagated.
//
// Managers serialize their own mutations with a mutex; concurrent
// callers are safe and the last writer wins. That is the documented
// concurrency contract, matching the single-actor usage the store was
// designed for.
package manager

import "errors"

// ErrNotFound is returned by Update when the target id does not exist.
// Delete of a nonexistent id is not an error: it is a guarded no-op
// that emits no history entry, since there is nothing to describe.
var ErrNotFound = errors.New("not found")
