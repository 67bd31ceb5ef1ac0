// Package cache is the content-addressed LRU store for compiled IR. It
// wraps hashicorp/golang-lru/v2 with a single mutex, keyed by the 64-bit
// content hash of a normalized constraint list.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"constraintcore/internal/types"
)

// Key is the 64-bit content hash of the canonical JSON form of a normalized
// constraint list.
type Key uint64

// entry is what the cache actually stores: the compiled IR plus its
// manifest, since both are needed to reproduce a cache hit's full result.
type entry struct {
	ir       types.ConstraintIR
	manifest types.Manifest
}

// Cache is a strict-LRU, capacity-bounded store. Safe for concurrent use:
// a single mutex guards every map operation and is held only across that
// operation, never across caller work.
type Cache struct {
	mu    sync.Mutex
	inner *lru.Cache[Key, entry]

	hits   uint64
	misses uint64
}

// New builds a Cache with the given capacity (default 1024 when
// non-positive).
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = 1024
	}
	inner, err := lru.New[Key, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

// Get returns the cached IR and manifest for key, or ok=false on a miss.
// Hits return deep clones: ownership of the returned values transfers to
// the caller while the cache keeps its own copy intact.
func (c *Cache) Get(key Key) (types.ConstraintIR, types.Manifest, bool) {
	c.mu.Lock()
	e, ok := c.inner.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !ok {
		return types.ConstraintIR{}, types.Manifest{}, false
	}
	// Cloning happens outside the lock; the mutex covers map operations
	// only, never caller-proportional work.
	return e.ir.Clone(), e.manifest.Clone(), true
}

// Put stores ir/manifest under key, evicting the least-recently-used entry
// if the cache is at capacity. The cache keeps its own deep copies: the
// caller retains ownership of the values it passed in and may mutate them
// freely afterwards.
func (c *Cache) Put(key Key, ir types.ConstraintIR, manifest types.Manifest) {
	e := entry{ir: ir.Clone(), manifest: manifest.Clone()}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(key, e)
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}

// Stats returns cumulative hit/miss counts, for tests and diagnostics.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
