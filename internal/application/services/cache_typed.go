package services

import (
	"context"
	"encoding/json"

	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
	"github.com/harborline/saas-cache/internal/core/ports"
)

// Typed helpers over the byte-oriented service, serializing with JSON.
// A value that fails to round-trip is treated like any other cache failure:
// the caller sees a miss.

// GetTyped returns the cached value for key decoded into T. ok=false on
// miss, provider failure or a decode failure.
func GetTyped[T any](ctx context.Context, s *CacheService, key cachekey.Key, opts *ports.CacheOptions) (*T, bool) {
	b := s.Get(ctx, key, opts)
	if b == nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		s.logger.WithError(err).WithField("key", key.String()).Warn("cached value failed to decode")
		return nil, false
	}
	return &v, true
}

// SetTyped encodes v and stores it under key. Encode failures are swallowed
// like provider failures; nil values are never stored.
func SetTyped[T any](ctx context.Context, s *CacheService, key cachekey.Key, v *T, opts *ports.CacheOptions) {
	if v == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.WithError(err).WithField("key", key.String()).Warn("cache value failed to encode")
		return
	}
	s.Set(ctx, key, b, opts)
}

// GetOrSetTyped runs the cache-aside pattern with typed values. A nil
// factory result is returned as-is and never cached.
func GetOrSetTyped[T any](ctx context.Context, s *CacheService, key cachekey.Key, factory func(ctx context.Context) (*T, error), opts *ports.CacheOptions) (*T, error) {
	b, err := s.GetOrSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		return json.Marshal(v)
	}, opts)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		// a poisoned entry must not starve the caller: drop it and recompute
		s.logger.WithError(err).WithField("key", key.String()).Warn("cached value failed to decode")
		s.Delete(ctx, namespaced(key, opts))
		return factory(ctx)
	}
	return &v, nil
}
