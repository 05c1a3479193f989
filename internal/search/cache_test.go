package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parking-service/internal/model"
)

func TestPlateCache(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	cache := newPlateCache(30*time.Second, clock.Now)

	assert.False(t, cache.valid(), "a never refreshed cache is invalid")

	cache.replace([]cacheEntry{{plate: "AB12CD", vehicle: model.Vehicle{NormalizedPlate: "AB12CD"}}})
	assert.True(t, cache.valid())

	clock.Advance(29 * time.Second)
	assert.True(t, cache.valid(), "still inside the TTL window")

	clock.Advance(time.Second)
	assert.False(t, cache.valid(), "the full window shares one expiry deadline")

	cache.replace(nil)
	assert.True(t, cache.valid(), "replace restarts the window")

	cache.clear()
	assert.False(t, cache.valid())
	assert.Empty(t, cache.entries)
}
