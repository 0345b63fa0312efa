package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KVStore.Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("kv: key not found")

// KVStore is the key/value collaborator used for verification codes and
// session records. Each call is atomic from the caller's perspective.
type KVStore interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value. A zero ttl
	// keeps the entry until it is deleted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// KVPurger is implemented by stores that can drop expired entries eagerly.
type KVPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}
