package ports

import (
	"context"
	"time"

	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
)

// CacheProvider is the substitutable backend contract. Implementations store
// opaque byte values; serialization is the service layer's concern.
//
// Providers surface their failures as errors. Degrading those failures to
// safe defaults is deliberately NOT done here: the cache service is the one
// layer that swallows, so tests and alternative orchestrators can still see
// what went wrong.
type CacheProvider interface {
	// Initialize prepares the backend (e.g. a health-check round trip).
	// Idempotent. The only provider operation whose failure callers may
	// treat as fatal.
	Initialize(ctx context.Context) error
	// Get returns the stored bytes for key. ok=false on a plain miss or an
	// expired entry; a miss is never an error.
	Get(ctx context.Context, key cachekey.Key) (value []byte, ok bool, err error)
	// Set stores value under key, fully overwriting any existing entry.
	// ttl <= 0 means no expiry at the provider level.
	Set(ctx context.Context, key cachekey.Key, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key cachekey.Key) error
	// Has reports whether key currently holds an unexpired entry.
	Has(ctx context.Context, key cachekey.Key) (bool, error)
	// Clear removes every entry and resets statistics. Destructive;
	// administrative paths only.
	Clear(ctx context.Context) error
	// InvalidatePattern deletes every key the pattern matches and returns
	// how many were removed.
	InvalidatePattern(ctx context.Context, pattern cachekey.Pattern) (int, error)
	// Stats returns a snapshot of the running counters.
	Stats(ctx context.Context) (CacheStats, error)
	// Disconnect releases backend resources. Idempotent.
	Disconnect() error
}

// CacheStats are process-local observability counters. They reset when the
// process restarts or Clear is called and are never used for correctness.
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	KeyCount int64   `json:"keyCount"`
	HitRate  float64 `json:"hitRate"`
}

// CacheOptions tune a single cache call. Passed per call, never stored.
type CacheOptions struct {
	// TTL overrides the service default when positive.
	TTL time.Duration
	// Namespace prefixes the key, isolating e.g. per-environment entries.
	Namespace string
	// SkipCache forces GetOrSet to bypass both the read and the write.
	SkipCache bool
}
