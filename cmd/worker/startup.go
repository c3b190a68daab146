package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	infraCache "realestate-backend/internal/infrastructure/cache"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	redis *infraCache.RedisClient
}

// startServices performs health checks and starts the liveness endpoint
func startServices(cfg *config.Config) error {
	log.Info().Str("version", cfg.App.Version).Msg("Realestate worker starting")

	checker := &HealthChecker{redis: infraCache.NewRedisClient(cfg.Redis)}
	defer checker.redis.Close()

	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(cfg.Jobs.HealthPort)
	return nil
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"Redis Connection", h.checkRedis},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}
	return nil
}

func (h *HealthChecker) checkRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.redis.HealthCheck(ctx)
}

// startHealthCheckServer exposes /health and /ready for the orchestrator
func startHealthCheckServer(port string) {
	r := healthRouter()

	log.Info().Str("port", port).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

func healthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "realestate-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	return r
}
