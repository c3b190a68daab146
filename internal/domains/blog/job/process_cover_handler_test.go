package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/shared"
)

type fakeProcessor struct {
	id  uuid.UUID
	key string
	err error
}

func (f *fakeProcessor) ProcessCover(_ context.Context, id uuid.UUID, key string) error {
	f.id, f.key = id, key
	return f.err
}

func coverTask(t *testing.T, payload any) *asynq.Task {
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeProcessBlogCover, b)
}

func TestProcessCoverHandler(t *testing.T) {
	id := uuid.New()
	fp := &fakeProcessor{}
	h := NewProcessCoverHandler(fp)

	err := h.ProcessTask(context.Background(), coverTask(t, shared.ProcessBlogCoverPayload{
		PostID: id.String(), OriginalKey: "blog/" + id.String() + "/original.jpg",
	}))
	require.NoError(t, err)
	assert.Equal(t, id, fp.id)
	assert.Equal(t, "blog/"+id.String()+"/original.jpg", fp.key)
}

func TestProcessCoverHandler_Failures(t *testing.T) {
	fp := &fakeProcessor{err: errors.New("minio down")}
	h := NewProcessCoverHandler(fp)

	err := h.ProcessTask(context.Background(), coverTask(t, shared.ProcessBlogCoverPayload{PostID: uuid.NewString(), OriginalKey: "k"}))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))

	err = h.ProcessTask(context.Background(), coverTask(t, shared.ProcessBlogCoverPayload{PostID: "nope", OriginalKey: "k"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeProcessBlogCover, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
