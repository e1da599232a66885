// Package cache selects a cache provider from configuration. Pure
// construction logic; there is no runtime switching.
package cache

import (
	"github.com/sirupsen/logrus"

	config "github.com/harborline/saas-cache/configs"
	"github.com/harborline/saas-cache/internal/core/ports"
	"github.com/harborline/saas-cache/internal/infrastructure/cache/memory"
	"github.com/harborline/saas-cache/internal/infrastructure/cache/redis"
)

// NewProvider instantiates the provider named by cfg.Cache.Provider.
// An unknown or empty name logs a warning and falls back to the in-process
// provider so the process can always start. A distributed provider with
// missing credentials is a hard construction error.
func NewProvider(cfg *config.Config, logger *logrus.Logger) (ports.CacheProvider, error) {
	switch cfg.Cache.Provider {
	case config.ProviderDistributed:
		return redis.New(&cfg.Redis)
	case config.ProviderInProcess:
		return memory.New(cfg.Cache.SweepInterval), nil
	default:
		logger.WithField("provider", cfg.Cache.Provider).
			Warn("unknown cache provider configured, defaulting to in-process")
		return memory.New(cfg.Cache.SweepInterval), nil
	}
}
