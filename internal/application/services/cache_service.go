package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
	"github.com/harborline/saas-cache/internal/core/ports"
)

// CacheService is the only cache surface application code calls. It wraps
// the configured provider with default-TTL injection, the cache-aside
// GetOrSet pattern and uniform failure swallowing: a broken cache degrades
// to misses and lost writes, it never fails the caller's primary operation.
type CacheService struct {
	provider ports.CacheProvider
	// fallback constructs the emergency in-process provider used when a
	// production Initialize fails. Injected so tests can observe the swap.
	fallback   func() ports.CacheProvider
	defaultTTL time.Duration
	production bool
	logger     *logrus.Logger

	// coalesces concurrent GetOrSet misses per key
	group singleflight.Group

	initOnce sync.Once
	initErr  error

	mu sync.RWMutex // guards provider swap during fallback
}

// NewCacheService wires the service's collaborators explicitly. fallback may
// be nil, in which case a failed production Initialize propagates like a
// non-production one.
func NewCacheService(provider ports.CacheProvider, fallback func() ports.CacheProvider, defaultTTL time.Duration, production bool, logger *logrus.Logger) *CacheService {
	return &CacheService{
		provider:   provider,
		fallback:   fallback,
		defaultTTL: defaultTTL,
		production: production,
		logger:     logger,
	}
}

// Initialize prepares the provider exactly once. In a production
// configuration an unreachable backend is survived by swapping in a fresh
// fallback provider; anywhere else the failure propagates so misconfiguration
// is caught early.
func (s *CacheService) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		err := s.current().Initialize(ctx)
		if err == nil {
			return
		}
		if s.production && s.fallback != nil {
			s.logger.WithError(err).Error("cache provider initialization failed, falling back to in-process cache")
			fb := s.fallback()
			if fbErr := fb.Initialize(ctx); fbErr != nil {
				s.initErr = fbErr
				return
			}
			s.mu.Lock()
			s.provider = fb
			s.mu.Unlock()
			return
		}
		s.initErr = err
	})
	return s.initErr
}

func (s *CacheService) current() ports.CacheProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

func namespaced(key cachekey.Key, opts *ports.CacheOptions) cachekey.Key {
	if opts != nil && opts.Namespace != "" {
		return cachekey.Key(opts.Namespace + ":" + key.String())
	}
	return key
}

// Get returns the raw bytes under key, or nil on miss or provider failure.
func (s *CacheService) Get(ctx context.Context, key cachekey.Key, opts *ports.CacheOptions) []byte {
	key = namespaced(key, opts)
	val, ok, err := s.current().Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key.String()).Warn("cache get failed")
		return nil
	}
	if !ok {
		return nil
	}
	return val
}

// Set stores value under key with the effective TTL (option override or the
// service default). Failures are logged and swallowed; the write is lost but
// the caller is not blocked.
func (s *CacheService) Set(ctx context.Context, key cachekey.Key, value []byte, opts *ports.CacheOptions) {
	key = namespaced(key, opts)
	ttl := s.defaultTTL
	if opts != nil && opts.TTL > 0 {
		ttl = opts.TTL
	}
	if err := s.current().Set(ctx, key, value, ttl); err != nil {
		s.logger.WithError(err).WithField("key", key.String()).Warn("cache set failed")
	}
}

// Delete removes key. Failures are logged and swallowed.
func (s *CacheService) Delete(ctx context.Context, key cachekey.Key) {
	if err := s.current().Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key.String()).Warn("cache delete failed")
	}
}

// Has reports whether key is cached; false on provider failure.
func (s *CacheService) Has(ctx context.Context, key cachekey.Key) bool {
	ok, err := s.current().Has(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key.String()).Warn("cache has failed")
		return false
	}
	return ok
}

// Clear empties the cache. Destructive; administrative paths only.
func (s *CacheService) Clear(ctx context.Context) {
	if err := s.current().Clear(ctx); err != nil {
		s.logger.WithError(err).Warn("cache clear failed")
	}
}

// InvalidatePattern removes every key matching pattern and returns the count
// removed; 0 on provider failure.
func (s *CacheService) InvalidatePattern(ctx context.Context, pattern cachekey.Pattern) int {
	n, err := s.current().InvalidatePattern(ctx, pattern)
	if err != nil {
		s.logger.WithError(err).WithField("pattern", pattern.String()).Warn("cache pattern invalidation failed")
		return 0
	}
	return n
}

// Stats returns the provider's counters; zeroed stats on failure.
func (s *CacheService) Stats(ctx context.Context) ports.CacheStats {
	stats, err := s.current().Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("cache stats failed")
		return ports.CacheStats{}
	}
	return stats
}

// Disconnect releases the provider's resources.
func (s *CacheService) Disconnect() error {
	return s.current().Disconnect()
}

// GetOrSet is the cache-aside read path: return the cached bytes on a hit,
// otherwise compute them with factory, best-effort store the result and
// return it. Factory errors belong to the caller's primary operation and
// propagate untouched; nil factory results are returned but never cached so
// "no value" is retried on the next call. Concurrent misses for the same
// effective key are coalesced, so factory runs once per in-flight key.
func (s *CacheService) GetOrSet(ctx context.Context, key cachekey.Key, factory func(ctx context.Context) ([]byte, error), opts *ports.CacheOptions) ([]byte, error) {
	if opts != nil && opts.SkipCache {
		return factory(ctx)
	}

	// Fast path outside the singleflight group so concurrent hits never
	// serialize. A cold caller therefore reads twice (here and the in-group
	// re-check below) and records two misses; the counters are advisory, so
	// the cheaper hit path wins over exact miss accounting.
	effective := namespaced(key, opts)
	if val := s.Get(ctx, key, opts); val != nil {
		return val, nil
	}

	res, err, _ := s.group.Do(effective.String(), func() (any, error) {
		// another coalesced caller may have filled the entry already
		if val := s.Get(ctx, key, opts); val != nil {
			return val, nil
		}
		val, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		if val != nil {
			s.Set(ctx, key, val, opts)
		}
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	val, _ := res.([]byte)
	return val, nil
}
