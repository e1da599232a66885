package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by CACHE_PROVIDER.
const (
	ProviderInProcess   = "in-process"
	ProviderDistributed = "distributed"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Log         LogConfig
	Admin       AdminConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type CacheConfig struct {
	// Provider selects the backend: "in-process" or "distributed".
	Provider      string
	DefaultTTL    time.Duration
	SweepInterval time.Duration
}

type RedisConfig struct {
	// Addr and Token are required when the distributed provider is selected.
	Addr  string
	Token string
	DB    int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type AdminConfig struct {
	// APIToken gates the /admin/cache endpoints. Empty disables them.
	APIToken string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Cache: CacheConfig{
			Provider:      getEnv("CACHE_PROVIDER", ProviderInProcess),
			DefaultTTL:    getDurationEnv("CACHE_DEFAULT_TTL", time.Hour),
			SweepInterval: getDurationEnv("CACHE_SWEEP_INTERVAL", time.Minute),
		},
		Redis: RedisConfig{
			Addr:         getEnv("CACHE_REDIS_ADDR", ""),
			Token:        getEnv("CACHE_REDIS_TOKEN", ""),
			DB:           getIntEnv("CACHE_REDIS_DB", 0),
			PoolSize:     getIntEnv("CACHE_REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("CACHE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("CACHE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("CACHE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("CACHE_REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("CACHE_REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("CACHE_REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Admin: AdminConfig{
			APIToken: getEnv("ADMIN_API_TOKEN", ""),
		},
	}

	if cfg.Cache.Provider == ProviderDistributed {
		if cfg.Redis.Addr == "" || cfg.Redis.Token == "" {
			return nil, fmt.Errorf("distributed cache provider requires CACHE_REDIS_ADDR and CACHE_REDIS_TOKEN")
		}
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with a production configuration.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
