package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared"
)

// CoverProcessor is implemented by the blog service.
type CoverProcessor interface {
	ProcessCover(ctx context.Context, id uuid.UUID, originalKey string) error
}

// ProcessCoverHandler resizes an uploaded blog cover into its variants.
type ProcessCoverHandler struct {
	processor CoverProcessor
}

func NewProcessCoverHandler(processor CoverProcessor) *ProcessCoverHandler {
	return &ProcessCoverHandler{processor: processor}
}

func (h *ProcessCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessBlogCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessBlogCover payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil || payload.OriginalKey == "" {
		return fmt.Errorf("invalid payload for post %q: %w", payload.PostID, asynq.SkipRetry)
	}

	log.Info().Str("post_id", payload.PostID).Msg("Processing blog cover variants")

	if err := h.processor.ProcessCover(ctx, postID, payload.OriginalKey); err != nil {
		log.Error().Err(err).Str("post_id", payload.PostID).Msg("Failed to process blog cover")
		return fmt.Errorf("process cover: %w", err)
	}

	log.Info().Str("post_id", payload.PostID).Msg("Blog cover processed")
	return nil
}
