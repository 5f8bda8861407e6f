package model

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time. Injected so cache expiry is testable.
type Clock func() time.Time

// DefaultTTL bounds how long a trained model is reused for same-day requests.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	model     *Model
	createdAt time.Time
}

// Cache holds trained models keyed by (ticker, lookback, as-of date). It is
// the only shared mutable state in the prediction path. Concurrent misses for
// the same key may each train independently; the last writer wins, which is
// tolerated because training is idempotent over the same inputs.
type Cache struct {
	mu       sync.RWMutex
	m        map[string]cacheEntry
	ttl      time.Duration
	capacity int
	now      Clock
}

// NewCache creates a model cache. capacity <= 0 disables the size bound.
func NewCache(ttl time.Duration, capacity int, now Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		m:        make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      now,
	}
}

// Key builds the composite cache key. Keying on the as-of date (not a rolling
// clock) means a new calendar day forces retraining exactly once.
func Key(ticker string, lookbackDays int, asOf time.Time) string {
	return fmt.Sprintf("%s_%d_%s", ticker, lookbackDays, asOf.Format("2006-01-02"))
}

// Get returns a non-expired model. An expired entry is evicted on read and
// reported as a miss; the caller retrains synchronously.
func (c *Cache) Get(key string) (*Model, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		c.mu.Lock()
		// re-check under write lock; a fresher entry may have landed
		if cur, still := c.m[key]; still && c.now().Sub(cur.createdAt) > c.ttl {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.model, true
}

// Put stores a freshly trained model, evicting the oldest entry when at
// capacity.
func (c *Cache) Put(key string, m *Model) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 && len(c.m) >= c.capacity {
		if _, exists := c.m[key]; !exists {
			c.evictOldest()
		}
	}
	c.m[key] = cacheEntry{model: m, createdAt: c.now()}
}

// Len reports the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.m {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.createdAt
			first = false
		}
	}
	if !first {
		delete(c.m, oldestKey)
	}
}
