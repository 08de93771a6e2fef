package redis

import (
	"context"
	"time"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// ResolutionCache adapts the generic Cache to the structure resolver's
// cache contract.  Cache errors degrade to misses so a Redis outage never
// breaks resolution.
type ResolutionCache struct {
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewResolutionCache builds a ResolutionCache.  A zero ttl falls back to the
// underlying cache's default.
func NewResolutionCache(cache Cache, ttl time.Duration, log logging.Logger) *ResolutionCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ResolutionCache{cache: cache, ttl: ttl, logger: log.Named("resolution_cache")}
}

func resolutionKey(name string) string {
	return "structure:" + name
}

func (c *ResolutionCache) GetRecord(ctx context.Context, name string) (types.StructureRecord, bool) {
	var rec types.StructureRecord
	if err := c.cache.Get(ctx, resolutionKey(name), &rec); err != nil {
		return types.StructureRecord{}, false
	}
	return rec, true
}

func (c *ResolutionCache) PutRecord(ctx context.Context, name string, rec types.StructureRecord) {
	if err := c.cache.Set(ctx, resolutionKey(name), rec, c.ttl); err != nil {
		c.logger.Warn("structure record not cached",
			logging.String("name", name), logging.Err(err))
	}
}
