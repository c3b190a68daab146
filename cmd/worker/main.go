package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"realestate-backend/pkg/container"
)

func main() {
	cfg := loadConfig()

	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	handlers := initializeHandlers(c)

	if err := startServices(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	srv := setupAsynqServer(cfg, handlers)
	scheduler := setupScheduler(cfg)

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
