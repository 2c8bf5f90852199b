package cache

import (
	"itinerary-service/internal/domain"
	"sync"
	"time"
)

// Departure times are bucketed so nearby departures share one cached result.
const departureBucket = 15 * time.Minute

// TransferKey identifies one cached transfer estimate.
type TransferKey struct {
	FromPlaceID string
	ToPlaceID   string
	Mode        domain.TransferMode
	Bucket      time.Time
}

// NewTransferKey builds a cache key, rounding departAt down to its bucket.
func NewTransferKey(from, to string, mode domain.TransferMode, departAt time.Time) TransferKey {
	return TransferKey{
		FromPlaceID: from,
		ToPlaceID:   to,
		Mode:        mode,
		Bucket:      departAt.UTC().Truncate(departureBucket),
	}
}

// TransferEntry is an immutable cached estimate. Entries are replaced
// wholesale on expiry, never mutated in place.
type TransferEntry struct {
	DurationMinutes int
	DistanceKm      float64
	Source          string
}

type cachedEntry struct {
	entry     TransferEntry
	expiresAt time.Time
}

// TransferCache is a process-wide TTL cache of transfer estimates, shared
// across concurrent requests. Eviction is lazy: expired entries are dropped
// on read. Keys are naturally bounded by (POI pair x mode x time bucket)
// cardinality, so there is no size cap.
type TransferCache struct {
	ttl     time.Duration
	entries sync.Map // TransferKey -> cachedEntry

	now func() time.Time // override in tests
}

func NewTransferCache(ttl time.Duration) *TransferCache {
	return &TransferCache{ttl: ttl, now: time.Now}
}

// Get returns the cached entry for key if present and not expired.
func (c *TransferCache) Get(key TransferKey) (TransferEntry, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return TransferEntry{}, false
	}

	ce := v.(cachedEntry)
	if c.now().After(ce.expiresAt) {
		c.entries.Delete(key)
		return TransferEntry{}, false
	}

	return ce.entry, true
}

// Put stores entry under key with the configured TTL. The store is an atomic
// per-key replace; concurrent writers race harmlessly.
func (c *TransferCache) Put(key TransferKey, entry TransferEntry) {
	c.entries.Store(key, cachedEntry{
		entry:     entry,
		expiresAt: c.now().Add(c.ttl),
	})
}

// SetNow overrides the clock. Test hook.
func (c *TransferCache) SetNow(now func() time.Time) { c.now = now }
