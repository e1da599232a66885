package httpserver

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harborline/saas-cache/internal/application/services"
)

// cacheStatsCollector exports the cache service's running counters on every
// scrape, so hit ratios show up next to the HTTP metrics.
type cacheStatsCollector struct {
	svc *services.CacheService

	hits     *prometheus.Desc
	misses   *prometheus.Desc
	keyCount *prometheus.Desc
	hitRate  *prometheus.Desc
}

// RegisterCacheMetrics wires the cache collector into the default registry.
func RegisterCacheMetrics(svc *services.CacheService) {
	prometheus.MustRegister(&cacheStatsCollector{
		svc:      svc,
		hits:     prometheus.NewDesc("cache_hits_total", "Cache lookups answered from the cache", nil, nil),
		misses:   prometheus.NewDesc("cache_misses_total", "Cache lookups that fell through to the factory", nil, nil),
		keyCount: prometheus.NewDesc("cache_keys", "Number of keys currently stored", nil, nil),
		hitRate:  prometheus.NewDesc("cache_hit_ratio", "Hits over total lookups since start or last clear", nil, nil),
	})
}

func (c *cacheStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.keyCount
	ch <- c.hitRate
}

func (c *cacheStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	stats := c.svc.Stats(ctx)
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.keyCount, prometheus.GaugeValue, float64(stats.KeyCount))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, stats.HitRate)
}
