// Package requestcache memoizes expensive request results for a short
// TTL and deduplicates concurrent in-flight calls for the same key, so
// a burst of ticks hitting the same endpoint produces one upstream call.
package requestcache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the content endpoints' freshness window.
const DefaultTTL = 30 * time.Second

// Cache is a TTL response cache with in-flight deduplication
type Cache struct {
	ttl    time.Duration
	store  *gocache.Cache
	flight singleflight.Group
}

// New creates a cache with the given TTL. Zero means DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:   ttl,
		store: gocache.New(ttl, 2*ttl),
	}
}

// Do returns the cached value for key if fresh; otherwise it invokes fn
// exactly once across all concurrent callers and caches the result.
// Errors are never cached.
func (c *Cache) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	if value, found := c.store.Get(key); found {
		return value, nil
	}

	value, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a racing caller may have filled it
		if value, found := c.store.Get(key); found {
			return value, nil
		}
		value, err := fn()
		if err != nil {
			return nil, err
		}
		c.store.Set(key, value, gocache.DefaultExpiration)
		return value, nil
	})
	return value, err
}

// Invalidate drops a cached key
func (c *Cache) Invalidate(key string) {
	c.store.Delete(key)
}
