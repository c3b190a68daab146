package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	"realestate-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is optional; production uses the process environment.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	if envErr != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("env", cfg.App.Environment).Str("version", cfg.App.Version).Msg("Starting API")

	Serve(cfg)
}
