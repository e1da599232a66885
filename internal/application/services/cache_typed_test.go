package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/harborline/saas-cache/internal/application/services"
	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
	"github.com/harborline/saas-cache/internal/core/ports"
)

type tenantRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestTypedRoundTrip(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	key := cachekey.Key("tenant:7")

	impl.SetTyped(ctx, svc, key, &tenantRecord{ID: 7, Name: "Globex"}, nil)

	got, ok := impl.GetTyped[tenantRecord](ctx, svc, key, nil)
	require.True(t, ok)
	assert.Equal(t, &tenantRecord{ID: 7, Name: "Globex"}, got)
}

func TestGetTypedMissesOnAbsentKey(t *testing.T) {
	svc := newMemoryService(t)

	got, ok := impl.GetTyped[tenantRecord](context.Background(), svc, cachekey.Key("nope"), nil)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestGetOrSetTypedDoesNotCacheNil(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	calls := 0
	factory := func(ctx context.Context) (*tenantRecord, error) {
		calls++
		return nil, nil
	}

	got, err := impl.GetOrSetTyped(ctx, svc, cachekey.Key("tenant:gone"), factory, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = impl.GetOrSetTyped(ctx, svc, cachekey.Key("tenant:gone"), factory, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrSetTypedRecomputesPoisonedEntries(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	key := cachekey.Key("tenant:7")

	// not valid JSON for tenantRecord
	svc.Set(ctx, key, []byte("{"), nil)

	got, err := impl.GetOrSetTyped(ctx, svc, key, func(ctx context.Context) (*tenantRecord, error) {
		return &tenantRecord{ID: 7, Name: "Globex"}, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, &tenantRecord{ID: 7, Name: "Globex"}, got)
}

// The full cache-aside lifecycle: warm, hit, invalidate, rewarm.
func TestTenantLookupEndToEnd(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	key := cachekey.Key("tenant:42")
	opts := &ports.CacheOptions{TTL: 3600 * time.Second}

	calls := 0
	fetchTenant := func(ctx context.Context) (*tenantRecord, error) {
		calls++
		return &tenantRecord{ID: 42, Name: "Acme"}, nil
	}

	got, err := impl.GetOrSetTyped(ctx, svc, key, fetchTenant, opts)
	require.NoError(t, err)
	assert.Equal(t, &tenantRecord{ID: 42, Name: "Acme"}, got)
	assert.Equal(t, 1, calls)

	got, err = impl.GetOrSetTyped(ctx, svc, key, fetchTenant, opts)
	require.NoError(t, err)
	assert.Equal(t, &tenantRecord{ID: 42, Name: "Acme"}, got)
	assert.Equal(t, 1, calls, "an immediate second lookup is a hit")

	svc.InvalidatePattern(ctx, cachekey.Pattern("tenant:42:*"))
	svc.Delete(ctx, key)

	got, err = impl.GetOrSetTyped(ctx, svc, key, fetchTenant, opts)
	require.NoError(t, err)
	assert.Equal(t, &tenantRecord{ID: 42, Name: "Acme"}, got)
	assert.Equal(t, 2, calls, "invalidation makes the next lookup recompute")
}
