package provider

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/vmunix/tvrecon/pkg/title"
)

// DefaultCacheTTL is how long provider episode lists stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Cached serves a provider's episode lists from a Cache.
type Cached struct {
	inner Provider
	cache *Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCached wraps inner. ttl <= 0 uses DefaultCacheTTL.
func NewCached(inner Provider, cache *Cache, ttl time.Duration, log *slog.Logger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cached{inner: inner, cache: cache, ttl: ttl, log: log.With("provider", inner.Name())}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Episodes(ctx context.Context, series string) ([]Episode, error) {
	key := c.key(series)

	if data, ok := c.cache.Get(ctx, key); ok {
		var eps []Episode
		if err := json.Unmarshal(data, &eps); err == nil {
			c.log.Debug("cache hit for episodes", "series", series, "count", len(eps))
			return eps, nil
		}
		c.log.Warn("failed to unmarshal cached episodes", "series", series)
	}

	eps, err := c.inner.Episodes(ctx, series)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(eps)
	if err != nil {
		c.log.Warn("failed to marshal episodes for cache", "series", series, "error", err)
		return eps, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.log.Warn("failed to cache episodes", "series", series, "error", err)
	}
	return eps, nil
}

// Invalidate drops the cached list for series.
func (c *Cached) Invalidate(ctx context.Context, series string) error {
	return c.cache.Delete(ctx, c.key(series))
}

func (c *Cached) key(series string) string {
	return c.inner.Name() + ":episodes:" + title.Normalize(series)
}
