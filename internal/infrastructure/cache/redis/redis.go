// Package redis implements the distributed cache provider on a managed
// Redis-compatible key-value store. Every operation is a stateless
// request/response round trip from the client pool; TTL enforcement is
// delegated to the store, so no local sweep exists.
package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/go-redis/redis/v8"

	config "github.com/harborline/saas-cache/configs"
	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
	"github.com/harborline/saas-cache/internal/core/ports"
)

// Provider is the distributed cache backend.
type Provider struct {
	client goredis.Cmdable
	closer func() error

	hits   atomic.Int64
	misses atomic.Int64

	closeOnce sync.Once
}

var _ ports.CacheProvider = (*Provider)(nil)

// New builds the provider from configuration. The endpoint address and the
// access token must both be present; a missing credential is a startup-time
// failure, never a per-call one.
func New(cfg *config.RedisConfig) (*Provider, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("distributed cache: endpoint address is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("distributed cache: access token is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Token,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})
	return &Provider{client: client, closer: client.Close}, nil
}

// NewWithClient wires an existing client, for tests and cluster setups.
func NewWithClient(client goredis.Cmdable) *Provider {
	return &Provider{client: client, closer: func() error { return nil }}
}

// Initialize performs a PING round trip. An unreachable backend at startup
// is actionable configuration information, so this is the one operation
// whose failure propagates.
func (p *Provider) Initialize(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach cache backend: %w", err)
	}
	return nil
}

func (p *Provider) Get(ctx context.Context, key cachekey.Key) ([]byte, bool, error) {
	val, err := p.client.Get(ctx, key.String()).Bytes()
	if err == goredis.Nil {
		p.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		p.misses.Add(1)
		return nil, false, err
	}
	p.hits.Add(1)
	return val, true, nil
}

// Set stores value with the store's native expiry; ttl <= 0 stores without
// expiry.
func (p *Provider) Set(ctx context.Context, key cachekey.Key, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return p.client.Set(ctx, key.String(), value, ttl).Err()
}

func (p *Provider) Delete(ctx context.Context, key cachekey.Key) error {
	return p.client.Del(ctx, key.String()).Err()
}

func (p *Provider) Has(ctx context.Context, key cachekey.Key) (bool, error) {
	n, err := p.client.Exists(ctx, key.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear flushes the whole database and resets the local counters.
// Destructive; administrative paths only.
func (p *Provider) Clear(ctx context.Context) error {
	if err := p.client.FlushDB(ctx).Err(); err != nil {
		return err
	}
	p.hits.Store(0)
	p.misses.Store(0)
	return nil
}

// InvalidatePattern enumerates matching keys with KEYS, then issues one bulk
// DEL. Zero matches short-circuits without a delete call. The glob is passed
// verbatim: the taxonomy only ever emits a single trailing "*", and ids never
// contain the store's other glob metacharacters.
func (p *Provider) InvalidatePattern(ctx context.Context, pattern cachekey.Pattern) (int, error) {
	keys, err := p.client.Keys(ctx, pattern.String()).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	removed, err := p.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func (p *Provider) Stats(ctx context.Context) (ports.CacheStats, error) {
	hits := p.hits.Load()
	misses := p.misses.Load()
	stats := ports.CacheStats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	size, err := p.client.DBSize(ctx).Result()
	if err != nil {
		return stats, err
	}
	stats.KeyCount = size
	return stats, nil
}

// Disconnect closes the client pool. Idempotent.
func (p *Provider) Disconnect() error {
	var err error
	p.closeOnce.Do(func() { err = p.closer() })
	return err
}
