package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
)

var errClientNotInitialized = errors.New("redis client is not initialized")

// RedisClient owns the connection shared by the cache, the rate limiter,
// the revocation store and the worker's startup check.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Host,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     poolSize,
			MinIdleConns: cfg.MinIdleConns,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			// Open source Redis and miniredis do not answer the maintenance handshake.
			MaintNotificationsConfig: &maintnotifications.Config{
				Mode: maintnotifications.ModeDisabled,
			},
		}),
	}
}

func (r *RedisClient) Connect(ctx context.Context) error {
	addr := r.Client.Options().Addr
	log.Info().Str("addr", addr).Msg("[REDIS] Connecting")

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}

	log.Info().Str("addr", addr).Int("pool_size", r.Client.Options().PoolSize).Msg("[REDIS] Connected")
	return nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
