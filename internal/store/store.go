// Package store defines the key-value contract entity records are persisted
// against, plus the Redis, Postgres, and in-memory implementations.
//
// Records are field maps keyed by "kind:id". The contract is deliberately
// narrow: a batched field read, a batched field write that refreshes the
// record's expiry as one atomic operation, and a key delete. Everything the
// game core knows about persistence goes through this interface.
package store

import (
	"context"
	"time"
)

// Store is the backend contract for entity records.
type Store interface {
	// GetFields reads the named fields of key in one batch. Fields that are
	// absent on the record are omitted from the result; a missing record
	// yields an empty map and no error.
	GetFields(ctx context.Context, key string, fields []string) (map[string]string, error)

	// SetFields writes the given fields and refreshes the record's TTL as a
	// single atomic operation: either every field lands and the expiry is
	// refreshed, or nothing changes.
	SetFields(ctx context.Context, key string, values map[string]string, ttl time.Duration) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, key string) error
}
