package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/config"
)

// Cache key prefixes.
const (
	ModsCachePrefix = "modhub-mods-"
)

// CatalogCache holds the mod lists loaded from the mods endpoint, keyed by status.
type CatalogCache struct {
	ModsCache *PrefixedCache[[]models.Mod]
	ttl       time.Duration
}

// NewCatalogCache creates the catalog cache for the configured engine.
func NewCatalogCache(cfg *config.CacheConfig, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		ModsCache: NewPrefixedCache[[]models.Mod](
			newCacheInstanceByType(cfg),
			cfg.Type,
			ModsCachePrefix,
		),
		ttl: ttl,
	}
}

// GetMods returns the cached list for status. The second value is false on a miss.
func (c *CatalogCache) GetMods(ctx context.Context, status models.ModStatus) ([]models.Mod, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	mods, err := c.ModsCache.Get(ctx, status)
	if err != nil {
		return nil, false
	}
	return mods, true
}

// SetMods stores the list for status. Caching is disabled when the ttl is zero.
func (c *CatalogCache) SetMods(ctx context.Context, status models.ModStatus, mods []models.Mod) {
	if c.ttl <= 0 {
		return
	}
	if err := c.ModsCache.Set(ctx, status, mods, store.WithExpiration(c.ttl)); err != nil {
		log.Warn("Failed to cache mods", "status", status, "error", err)
	}
}

// Invalidate drops the cached list for each given status.
func (c *CatalogCache) Invalidate(ctx context.Context, statuses ...models.ModStatus) {
	for _, status := range statuses {
		if err := c.ModsCache.Delete(ctx, status); err != nil {
			log.Debug("Failed to invalidate cached mods", "status", status, "error", err)
		}
	}
}

// Type returns the engine behind the cache.
func (c *CatalogCache) Type() config.CacheType {
	return c.ModsCache.GetType()
}

type Stats struct {
	*codec.Stats
	CacheName string `json:"cacheName"`
}

func (c *CatalogCache) GetStats() []*Stats {
	return []*Stats{
		{
			Stats:     c.ModsCache.GetStats(),
			CacheName: "mods",
		},
	}
}
