package main

import (
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	"realestate-backend/pkg/logger"
)

// loadConfig reads .env (optional) and the shared application config.
func loadConfig() *config.Config {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("[Config] Failed to load")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if envErr != nil {
		log.Info().Msg("[Config] No .env file found, using system environment variables")
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Str("smtp", cfg.Email.SMTPHost).
		Int("concurrency", cfg.Jobs.Concurrency).
		Msg("[Config] Loaded")

	return cfg
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}
