package msgarg

import (
	"errors"
	"sync"
	"sync/atomic"
)

var errNotFound = errors.New("cache entry not found")

// maxCacheEntries bounds the number of entries a cache retains. Past
// that, lookups still work but new results are not remembered.
const maxCacheEntries = 4096

// cache is a concurrency-safe memo of computed results, including
// failed computations.
type cache[K comparable, V any] struct {
	m sync.Map
	n atomic.Int64
}

type cacheEntry[V any] struct {
	val V
	err error
}

// Get returns the cached value or error for k, or errNotFound if k
// has not been cached.
func (c *cache[K, V]) Get(k K) (V, error) {
	ent, ok := c.m.Load(k)
	if !ok {
		var zero V
		return zero, errNotFound
	}
	e := ent.(cacheEntry[V])
	return e.val, e.err
}

// Set records val as the result for k.
func (c *cache[K, V]) Set(k K, val V) {
	c.store(k, cacheEntry[V]{val: val})
}

// SetErr records err as the result for k.
func (c *cache[K, V]) SetErr(k K, err error) {
	c.store(k, cacheEntry[V]{err: err})
}

func (c *cache[K, V]) store(k K, ent cacheEntry[V]) {
	if c.n.Load() >= maxCacheEntries {
		return
	}
	if _, loaded := c.m.LoadOrStore(k, ent); !loaded {
		c.n.Add(1)
	}
}
