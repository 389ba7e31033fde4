// Package cache provides a small in-memory TTL cache used to memoize
// upstream adapter calls within a short window. It is a latency
// optimization, not a durability layer: entries are unbounded in count but
// short-lived, and expiry is checked lazily on read rather than swept.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a mutex-guarded TTL store. Construct one per process (or per
// test) and inject it; it is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   clockwork.Clock
	onGet   func(hit bool)
}

type entry struct {
	value   any
	expires time.Time // zero means no expiry
}

// New creates a cache using the real clock.
func New() *Cache {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock creates a cache with an injectable time source so tests can
// advance time deterministically.
func NewWithClock(clock clockwork.Clock) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

// OnGet installs a lookup observer called with the hit/miss outcome of every
// Get. Used to feed cache metrics without coupling this package to them.
func (c *Cache) OnGet(fn func(hit bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onGet = fn
}

// Get returns the cached value for key, or ok=false if absent or expired.
// Expired entries are deleted on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && !e.expires.IsZero() && c.clock.Now().After(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	if c.onGet != nil {
		c.onGet(ok)
	}
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl stores the value
// without expiry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.clock.Now().Add(ttl)
	}
	c.entries[key] = e
}

// Len reports the number of stored entries, including any not yet lazily
// expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Wrap memoizes fn in c under keys derived from prefix plus the JSON
// serialization of the argument. Errors are not cached, so a failed upstream
// call is retried on the next invocation. Two overlapping calls for the same
// key may both reach upstream; the second result wins.
func Wrap[A any, R any](c *Cache, prefix string, ttl time.Duration, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		key := prefix + ":" + argKey(arg)
		if v, ok := c.Get(key); ok {
			if r, ok := v.(R); ok {
				return r, nil
			}
		}

		r, err := fn(ctx, arg)
		if err != nil {
			return r, err
		}
		c.Set(key, r, ttl)
		return r, nil
	}
}

func argKey(arg any) string {
	b, err := json.Marshal(arg)
	if err != nil {
		return "?"
	}
	return string(b)
}
