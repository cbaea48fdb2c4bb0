package directory

import (
	"sync"
	"time"
)

// fetchCache memoizes successful fetches for a bounded interval so repeated
// interaction passes do not hammer the gateway. Entries are written once and
// expire by age; nothing is mutated in place.
type fetchCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value []any
	at    time.Time
}

func newFetchCache(ttl time.Duration) *fetchCache {
	return &fetchCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *fetchCache) get(key string) ([]any, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *fetchCache) put(key string, value []any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, at: c.now()}
}
