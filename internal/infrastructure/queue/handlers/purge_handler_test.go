package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/shared"
)

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func newHandler(purgers map[string]Purger) *PurgeDeletedHandler {
	h := NewPurgeDeletedHandler(purgers, 30)
	h.now = func() time.Time { return time.Date(2026, 6, 30, 3, 0, 0, 0, time.UTC) }
	return h
}

func TestPurgeDeletedHandler_UsesPayloadRetention(t *testing.T) {
	leads, clients := &fakePurger{n: 2}, &fakePurger{n: 0}
	h := newHandler(map[string]Purger{"leads": leads, "clients": clients})

	task := asynq.NewTask(shared.TypePurgeDeleted, []byte(`{"retentionDays":7}`))
	require.NoError(t, h.ProcessTask(context.Background(), task))

	want := time.Date(2026, 6, 23, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, want, leads.cutoff)
	assert.Equal(t, want, clients.cutoff)
}

func TestPurgeDeletedHandler_DefaultRetentionAndFailures(t *testing.T) {
	posts, broken := &fakePurger{}, &fakePurger{err: errors.New("db down")}
	h := newHandler(map[string]Purger{"blog_posts": posts, "leads": broken})

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypePurgeDeleted, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leads")
	assert.Equal(t, time.Date(2026, 5, 31, 3, 0, 0, 0, time.UTC), posts.cutoff)
}
