package main

import (
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	"realestate-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with lifecycle logging
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the periodic jobs and starts the scheduler
func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(redisOpt(cfg), cfg.Jobs)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
