package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/saas-cache/internal/application/services"
	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
	"github.com/harborline/saas-cache/internal/core/ports"
	"github.com/harborline/saas-cache/internal/infrastructure/cache/memory"
)

func newTestServer(t *testing.T) (*Server, *services.CacheService) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := services.NewCacheService(memory.New(time.Hour), nil, time.Hour, false, logger)
	require.NoError(t, svc.Initialize(context.Background()))
	t.Cleanup(func() { _ = svc.Disconnect() })

	cfg := &ServerConfig{Host: "127.0.0.1", Port: "0", AdminToken: "letmein"}
	return NewServer(cfg, logger, ServerDeps{CacheService: svc}), svc
}

func doRequest(srv *Server, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestAdminEndpointsRejectMissingToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/admin/cache/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(srv, http.MethodPost, "/admin/cache/clear", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCacheStats(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	svc.Get(ctx, cachekey.Key("k"), nil) // miss
	svc.Set(ctx, cachekey.Key("k"), []byte("v"), nil)
	svc.Get(ctx, cachekey.Key("k"), nil) // hit

	rec := doRequest(srv, http.MethodGet, "/admin/cache/stats", "letmein")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats ports.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestInvalidateCacheKeys(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	svc.Set(ctx, cachekey.Key("user:1"), []byte("a"), nil)
	svc.Set(ctx, cachekey.Key("user:2"), []byte("b"), nil)
	svc.Set(ctx, cachekey.Key("org:1"), []byte("c"), nil)

	rec := doRequest(srv, http.MethodDelete, "/admin/cache/keys?pattern=user:*", "letmein")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Removed int `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Removed)
	assert.Nil(t, svc.Get(ctx, cachekey.Key("user:1"), nil))
	assert.NotNil(t, svc.Get(ctx, cachekey.Key("org:1"), nil))
}

func TestInvalidateCacheKeysRequiresPattern(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodDelete, "/admin/cache/keys", "letmein")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCache(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	svc.Set(ctx, cachekey.Key("k"), []byte("v"), nil)

	rec := doRequest(srv, http.MethodPost, "/admin/cache/clear", "letmein")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, svc.Get(ctx, cachekey.Key("k"), nil))
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
