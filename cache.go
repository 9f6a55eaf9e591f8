package fraiseql

import (
	"context"
	"time"
)

// Cache is the interface for caching compiled query plans and query
// results. The APQ subsystem (executor/apq.go) is the primary consumer;
// users may also implement this with Redis, Memcached, or any other
// backend for the optional result-caching layer described in §9 (left
// outside the core Executor boundary by design).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey generates a cache key for a compiled query plan or APQ entry.
type CacheKey struct {
	SchemaHash string // CompiledSchema content hash; changing it invalidates all entries
	Operation  string // operation name, or "" for anonymous operations
	Hash       string // sha256(query-text), hex-encoded
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.SchemaHash + ":" + k.Operation + ":" + k.Hash
}
