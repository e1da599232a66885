package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/harborline/saas-cache/configs"
	"github.com/harborline/saas-cache/internal/application/services"
	"github.com/harborline/saas-cache/internal/core/ports"
	"github.com/harborline/saas-cache/internal/infrastructure/cache"
	"github.com/harborline/saas-cache/internal/infrastructure/cache/memory"
	"github.com/harborline/saas-cache/internal/infrastructure/health"
	"github.com/harborline/saas-cache/internal/infrastructure/httpserver"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithField("provider", cfg.Cache.Provider).Info("Starting cache engine...")

	// Select the cache provider from configuration
	provider, err := cache.NewProvider(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to construct cache provider:", err)
	}

	// The fallback constructor is an explicit collaborator: a production
	// initialization failure swaps in a fresh in-process provider.
	fallback := func() ports.CacheProvider { return memory.New(cfg.Cache.SweepInterval) }
	cacheService := services.NewCacheService(provider, fallback, cfg.Cache.DefaultTTL, cfg.IsProduction(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = cacheService.Initialize(ctx)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize cache service:", err)
	}
	defer func() {
		if err := cacheService.Disconnect(); err != nil {
			logger.Warn("Failed to disconnect cache provider:", err)
		}
	}()

	logger.Info("Cache service initialized")

	httpserver.RegisterCacheMetrics(cacheService)

	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
		Environment:  cfg.Environment,
		AdminToken:   cfg.Admin.APIToken,
	}

	deps := httpserver.ServerDeps{
		CacheService:   cacheService,
		HealthCheckers: []ports.HealthChecker{health.NewCacheHealthChecker(provider)},
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
