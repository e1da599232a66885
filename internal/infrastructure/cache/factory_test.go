package cache

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/harborline/saas-cache/configs"
	"github.com/harborline/saas-cache/internal/infrastructure/cache/memory"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestNewProviderSelectsInProcess(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Provider: config.ProviderInProcess}}

	p, err := NewProvider(cfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &memory.Provider{}, p)
}

func TestNewProviderDefaultsOnUnknownName(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Provider: "memcached"}}

	p, err := NewProvider(cfg, testLogger())
	require.NoError(t, err, "the system must always be able to start")
	assert.IsType(t, &memory.Provider{}, p)
}

func TestNewProviderDistributedRequiresCredentials(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Provider: config.ProviderDistributed}}

	_, err := NewProvider(cfg, testLogger())
	assert.Error(t, err, "missing endpoint/token is a startup-time failure")
}
