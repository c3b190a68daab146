package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	"realestate-backend/internal/shared"
)

// asynqServer wraps asynq.Server with lifecycle logging
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the server and starts processing without blocking
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueHigh:    6,
				shared.QueueDefault: 3,
				shared.QueueLow:     1,
			},
			Concurrency: cfg.Jobs.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task_type", task.Type()).Msg("[Asynq] Task failed")
			}),
		},
	)

	log.Info().Msg("[Worker] Starting")
	if err := srv.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("[Worker] Failed")
	}

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to asynq's ShutdownTimeout.
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Stopped")
}
