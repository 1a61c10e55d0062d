// Package cache provides the memoization port used around the comparison
// engine. The engine itself stays cache-agnostic; callers key entries by
// (location id, computation date) and, for calendar grids, the target year.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a key-value store with per-entry TTL. A zero TTL means the entry
// never expires.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(key string)
}

// TTLCache is a thread-safe in-memory Cache implementation. Expired entries
// are dropped lazily on read and swept opportunistically on write.
type TTLCache[V any] struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

// NewTTLCache creates an empty cache reading time from clock.
func NewTTLCache[V any](clock clockwork.Clock) *TTLCache[V] {
	return &TTLCache[V]{
		clock:   clock,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !e.expiresAt.IsZero() && !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A zero ttl keeps the entry until deleted.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = c.clock.Now().Add(ttl)
	}
	c.entries[key] = e

	c.sweepLocked()
}

// Delete removes the entry for key, if any.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of live entries.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	now := c.clock.Now()
	for _, e := range c.entries {
		if e.expiresAt.IsZero() || now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// sweepLocked removes expired entries. Called with the lock held.
func (c *TTLCache[V]) sweepLocked() {
	now := c.clock.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
