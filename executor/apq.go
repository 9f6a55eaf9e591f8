package executor

import (
	"context"
	"sync"
	"time"

	"github.com/fraiseql/fraiseql"
)

// shardCount is the number of lock-striped shards the APQ cache splits
// its entries across, reducing contention under concurrent request load
// without needing a lock-free structure.
const shardCount = 16

type apqEntry struct {
	value     []byte
	expiresAt time.Time // zero means "never expires"
}

type apqShard struct {
	mu      sync.RWMutex
	entries map[string]apqEntry
}

// APQCache implements fraiseql.Cache for Automatic Persisted Queries
// (§4.F, §6): it maps a sha256 hash to the full query text, with TTL
// eviction on read. Grounded on the teacher's Cache interface
// (cache.go) and CacheKey shape; APQ is the one component that actually
// needs process-local caching rather than delegating it to the
// database, since it must be consulted before a query is ever sent.
type APQCache struct {
	shards [shardCount]*apqShard
	ttl    time.Duration
}

var _ fraiseql.Cache = (*APQCache)(nil)

// NewAPQCache returns an APQCache whose entries expire ttl after they
// are last Set, unless a caller passes an explicit ttl to Set.
func NewAPQCache(ttl time.Duration) *APQCache {
	c := &APQCache{ttl: ttl}
	for i := range c.shards {
		c.shards[i] = &apqShard{entries: make(map[string]apqEntry)}
	}
	return c
}

func (c *APQCache) shardFor(key string) *apqShard {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return c.shards[h%shardCount]
}

// Get returns the cached bytes for key, or nil, nil if absent or
// expired.
func (c *APQCache) Get(ctx context.Context, key string) ([]byte, error) {
	shard := c.shardFor(key)
	shard.mu.RLock()
	entry, found := shard.entries[key]
	shard.mu.RUnlock()
	if !found {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		shard.mu.Lock()
		delete(shard.entries, key)
		shard.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

// Set stores value under key. A zero ttl falls back to the cache's
// configured default TTL; the entry never expires only when that
// default is zero or negative as well.
func (c *APQCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	shard := c.shardFor(key)
	shard.mu.Lock()
	entry := apqEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	shard.entries[key] = entry
	shard.mu.Unlock()
	return nil
}

// Delete removes a single entry.
func (c *APQCache) Delete(ctx context.Context, key string) error {
	shard := c.shardFor(key)
	shard.mu.Lock()
	delete(shard.entries, key)
	shard.mu.Unlock()
	return nil
}

// DeletePrefix removes every entry whose key has the given prefix, used
// to invalidate every APQ entry scoped to a schema hash when a new
// CompiledSchema is loaded (§4.F: CacheKey.SchemaHash is the prefix).
func (c *APQCache) DeletePrefix(ctx context.Context, prefix string) error {
	for _, shard := range c.shards {
		shard.mu.Lock()
		for key := range shard.entries {
			if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
				delete(shard.entries, key)
			}
		}
		shard.mu.Unlock()
	}
	return nil
}

// Clear removes every entry.
func (c *APQCache) Clear(ctx context.Context) error {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.entries = make(map[string]apqEntry)
		shard.mu.Unlock()
	}
	return nil
}

// Lookup resolves a persisted query hash to its stored query text
// through key, returning fraiseql.UnknownPersistedHashError if absent
// (§7 ProtocolError).
func Lookup(ctx context.Context, cache fraiseql.Cache, key fraiseql.CacheKey) (string, error) {
	value, err := cache.Get(ctx, key.String())
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", &fraiseql.UnknownPersistedHashError{Hash: key.Hash}
	}
	return string(value), nil
}

// Persist stores query text under key with the cache's default TTL
// (§4.F APQ registration step).
func Persist(ctx context.Context, cache fraiseql.Cache, key fraiseql.CacheKey, query string) error {
	return cache.Set(ctx, key.String(), []byte(query), 0)
}
