package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared"
)

// Enqueuer is what services use to schedule background work.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) error
}

// taskOptions holds the queue, retry and timeout of each task type.
var taskOptions = map[string][]asynq.Option{
	shared.TypeLeadInquiryEmail:    {asynq.Queue(shared.QueueHigh), asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)},
	shared.TypePasswordResetNotice: {asynq.Queue(shared.QueueHigh), asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)},
	shared.TypeProcessBlogCover:    {asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3), asynq.Timeout(2 * time.Minute)},
	shared.TypePurgeDeleted:        {asynq.Queue(shared.QueueLow), asynq.MaxRetry(1), asynq.Timeout(10 * time.Minute)},
}

// NewTask JSON encodes payload into a task carrying the options registered
// for taskType.
func NewTask(taskType string, payload interface{}) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	opts, ok := taskOptions[taskType]
	if !ok {
		opts = []asynq.Option{asynq.Queue(shared.QueueDefault)}
	}

	return asynq.NewTask(taskType, b, opts...), nil
}

type AsynqEnqueuer struct {
	client *asynq.Client
}

var _ Enqueuer = (*AsynqEnqueuer)(nil)

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	task, err := NewTask(taskType, payload)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("type", taskType).
		Str("queue", info.Queue).
		Msg("Task enqueued")

	return nil
}
