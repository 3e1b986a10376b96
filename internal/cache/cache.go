// internal/cache/cache.go

package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"partypulse/internal/metrics"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a size-bounded TTL cache. Concurrent misses on the same key
// share one computation.
type Cache[K comparable, V any] struct {
	name  string
	ttl   time.Duration
	lru   *expirable.LRU[K, entry[V]]
	group singleflight.Group
	now   func() time.Time
	// gen is bumped by Clear; computations started before it are not stored
	gen atomic.Uint64
}

// Option configures a Cache
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for staleness checks
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a cache holding at most capacity entries, each valid for ttl
func New[K comparable, V any](name string, capacity int, ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity <= 0 {
		capacity = 1
	}

	return &Cache[K, V]{
		name: name,
		ttl:  ttl,
		lru:  expirable.NewLRU[K, entry[V]](capacity, nil, ttl),
		now:  o.now,
	}
}

// TTL returns the validity period of entries
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if it is present and not stale
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.lru.Get(key)
	if ok && c.now().Sub(e.storedAt) > c.ttl {
		c.lru.Remove(key)
		ok = false
	}
	metrics.RecordCacheLookup(c.name, ok)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key
func (c *Cache[K, V]) Set(key K, value V) {
	c.lru.Add(key, entry[V]{value: value, storedAt: c.now()})
}

// GetOrCompute returns the cached value for key or computes and stores it.
// Errors from fn are returned and never cached.
func (c *Cache[K, V]) GetOrCompute(ctx context.Context, key K, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	gen := c.gen.Load()
	res, err, _ := c.group.Do(fmt.Sprintf("%d/%v", gen, key), func() (interface{}, error) {
		if v, ok := c.lru.Get(key); ok && c.now().Sub(v.storedAt) <= c.ttl {
			return v.value, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if c.gen.Load() == gen {
			c.Set(key, v)
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len returns the number of stored entries
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Clear drops every entry. Computations already in flight still return
// their result to their callers but do not store it.
func (c *Cache[K, V]) Clear() {
	c.gen.Add(1)
	c.lru.Purge()
}
