// Package cache provides a bounded in-memory cache with per-entry expiry.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize bounds the number of keys a cache holds before evicting the
// least recently used entry.
const DefaultSize = 1024

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is an LRU cache whose entries expire after a fixed duration.
// Expired entries are dropped lazily on read.
type TTLCache[V any] struct {
	mu    sync.Mutex
	items *lru.Cache[string, entry[V]]
	ttl   time.Duration
	now   func() time.Time
	copy  func(V) V
}

// Option configures a TTLCache
type Option[V any] func(*TTLCache[V])

// WithClock replaces time.Now, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) { c.now = now }
}

// WithCopy sets a function applied to values on the way in and out so callers
// never share mutable state with the cache.
func WithCopy[V any](fn func(V) V) Option[V] {
	return func(c *TTLCache[V]) { c.copy = fn }
}

// New creates a cache holding at most size entries, each living for ttl.
func New[V any](size int, ttl time.Duration, opts ...Option[V]) (*TTLCache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	items, err := lru.New[string, entry[V]](size)
	if err != nil {
		return nil, err
	}
	c := &TTLCache[V]{
		items: items,
		ttl:   ttl,
		now:   time.Now,
		copy:  func(v V) V { return v },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.items.Remove(key)
		return zero, false
	}
	return c.copy(e.value), true
}

// Set stores value under key with the cache's default TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL. Last writer wins.
func (c *TTLCache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Add(key, entry[V]{value: c.copy(value), expiresAt: c.now().Add(ttl)})
}

// Delete removes key if present.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Remove(key)
}

// Len reports the number of stored entries, including ones that have expired
// but not yet been read.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

// Purge drops every entry.
func (c *TTLCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Purge()
}

// TTL returns the default entry lifetime.
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}
