package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared"
)

// Purger hard deletes rows soft deleted before cutoff.
type Purger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeDeletedHandler runs maintenance:purge_deleted over every table that
// supports soft delete.
type PurgeDeletedHandler struct {
	purgers          map[string]Purger
	defaultRetention int
	now              func() time.Time
}

func NewPurgeDeletedHandler(purgers map[string]Purger, defaultRetention int) *PurgeDeletedHandler {
	return &PurgeDeletedHandler{
		purgers:          purgers,
		defaultRetention: defaultRetention,
		now:              time.Now,
	}
}

func (h *PurgeDeletedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PurgeDeletedPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	days := payload.RetentionDays
	if days <= 0 {
		days = h.defaultRetention
	}
	cutoff := h.now().UTC().AddDate(0, 0, -days)

	var failed []string
	for name, purger := range h.purgers {
		n, err := purger.PurgeDeletedBefore(ctx, cutoff)
		if err != nil {
			log.Error().Err(err).Str("table", name).Msg("Purge failed")
			failed = append(failed, name)
			continue
		}
		log.Info().
			Str("table", name).
			Int64("deleted", n).
			Time("cutoff", cutoff).
			Msg("Purged soft deleted rows")
	}

	if len(failed) > 0 {
		return fmt.Errorf("purge failed for %v", failed)
	}
	return nil
}
