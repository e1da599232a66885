package health

import (
	"context"

	"github.com/harborline/saas-cache/internal/core/ports"
)

// cacheHealthChecker probes the cache provider with a stats round trip.
type cacheHealthChecker struct{ provider ports.CacheProvider }

func (c *cacheHealthChecker) Name() string { return "cache" }
func (c *cacheHealthChecker) Check(ctx context.Context) error {
	_, err := c.provider.Stats(ctx)
	return err
}

// NewCacheHealthChecker creates a health checker for the cache provider.
func NewCacheHealthChecker(provider ports.CacheProvider) ports.HealthChecker {
	return &cacheHealthChecker{provider: provider}
}
