package tmdb

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// responseCache keeps raw response bodies for the life of the client, so
// the season walk of one series never asks TMDB twice for the same page.
type responseCache struct {
	mu    sync.Mutex
	clock clockwork.Clock
	ttl   time.Duration
	body  map[string][]byte
	until map[string]time.Time
}

func newResponseCache(ttl time.Duration, clock clockwork.Clock) *responseCache {
	return &responseCache{
		clock: clock,
		ttl:   ttl,
		body:  make(map[string][]byte),
		until: make(map[string]time.Time),
	}
}

func (c *responseCache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	until, ok := c.until[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(until) {
		delete(c.body, key)
		delete(c.until, key)
		return nil, false
	}
	return c.body[key], true
}

func (c *responseCache) store(key string, body []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.body[key] = body
	c.until[key] = c.clock.Now().Add(c.ttl)
}
