package search

import (
	"time"

	"parking-service/internal/model"
)

// plateCache holds a snapshot of currently parked vehicles for suggestion
// queries. The whole set shares one expiry deadline: any read after the TTL
// discards and rebuilds every entry. There is no per plate invalidation, so
// suggestions can lag check-ins and check-outs by up to one TTL window.
//
// The cache is intentionally unlocked. Two near simultaneous expired reads may
// each trigger a rebuild; the second write wins and the only cost is one
// redundant directory query. Authoritative searches never read the cache.
type plateCache struct {
	ttl           time.Duration
	lastRefreshed time.Time
	entries       []cacheEntry
	now           func() time.Time
}

type cacheEntry struct {
	plate   string // normalized
	vehicle model.Vehicle
}

func newPlateCache(ttl time.Duration, now func() time.Time) *plateCache {
	return &plateCache{ttl: ttl, now: now}
}

// valid reports whether the current entry set is still inside the TTL window.
// An empty, never refreshed cache is always invalid.
func (c *plateCache) valid() bool {
	if c.lastRefreshed.IsZero() {
		return false
	}
	return c.now().Sub(c.lastRefreshed) < c.ttl
}

// replace installs a freshly fetched entry set and restarts the TTL window.
// Entry order follows the order of vehicles, which callers rely on for
// suggestion ranking.
func (c *plateCache) replace(entries []cacheEntry) {
	c.entries = entries
	c.lastRefreshed = c.now()
}

func (c *plateCache) clear() {
	c.entries = nil
	c.lastRefreshed = time.Time{}
}
