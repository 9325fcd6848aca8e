// Package cache provides the TTL memoization layer the analytics facade sits
// behind: lazy expiry, request coalescing for concurrent misses and
// prefix-based invalidation.
package cache

import (
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes computed values under string keys. Entries expire lazily on
// read; there is no background sweeper. Safe for concurrent use.
type Cache struct {
	store  *gocache.Cache
	flight singleflight.Group

	// writeMu orders write-backs against invalidations so a flight that
	// started before an Invalidate can never re-publish a stale value
	// after it.
	writeMu sync.Mutex
	epoch   atomic.Uint64

	hits     atomic.Uint64
	misses   atomic.Uint64
	computes atomic.Uint64
}

// New returns an empty cache. defaultTTL applies when GetOrCompute is called
// with a zero TTL.
func New(defaultTTL time.Duration) *Cache {
	// Cleanup interval zero disables the janitor; expired entries are
	// dropped on access.
	return &Cache{store: gocache.New(defaultTTL, 0)}
}

// Key builds a collision-free cache key from its parts. Parts are escaped so
// a separator occurring inside a part cannot alias another key.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.Join(escaped, "/")
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// its result for ttl. hit reports whether the value came from the cache.
// Concurrent callers missing on the same key share a single compute; every
// such caller reports a miss. A compute error is returned to all waiting
// callers and nothing is cached.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (value any, hit bool, err error) {
	if v, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return v, true, nil
	}
	c.misses.Add(1)

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a previous flight for this key may
		// have populated the entry while we queued.
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		epoch := c.epoch.Load()
		c.computes.Add(1)
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.writeMu.Lock()
		if c.epoch.Load() == epoch {
			c.store.Set(key, v, ttl)
		}
		c.writeMu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}

// Invalidate removes every entry whose key starts with prefix and returns how
// many were removed. In-flight computes that began before the call will not
// write their results back.
func (c *Cache) Invalidate(prefix string) int {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.epoch.Add(1)

	removed := 0
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
			removed++
		}
	}
	return removed
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.epoch.Add(1)
	c.store.Flush()
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Computes uint64 `json:"computes"`
	// Entries may include expired entries that have not been touched
	// since expiry; there is no sweeper to collect them.
	Entries int `json:"entries"`
}

// Stats reports cumulative hit/miss/compute counters and the current entry
// count.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Computes: c.computes.Load(),
		Entries:  c.store.ItemCount(),
	}
}
