package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	"realestate-backend/internal/shared"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobsConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobsConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers every periodic task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerPurgeDeletedJob()
}

// ================================================
// Purge soft deleted rows (JOBS_PURGE_CRON, default daily at 3 AM)
// ================================================
func (s *Scheduler) registerPurgeDeletedJob() error {
	task, err := NewTask(shared.TypePurgeDeleted, shared.PurgeDeletedPayload{
		RetentionDays: s.jobConfig.RetentionDays,
	})
	if err != nil {
		return err
	}

	entryID, err := s.scheduler.Register(s.jobConfig.PurgeCron, task)
	if err != nil {
		return fmt.Errorf("register %s: %w", shared.TypePurgeDeleted, err)
	}

	log.Info().
		Str("entry_id", entryID).
		Str("cron", s.jobConfig.PurgeCron).
		Int("retention_days", s.jobConfig.RetentionDays).
		Msg("Registered PurgeDeleted job")

	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
