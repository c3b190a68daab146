package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/shared"
)

func TestNewTask(t *testing.T) {
	task, err := NewTask(shared.TypeProcessBlogCover, shared.ProcessBlogCoverPayload{
		PostID:      "p-1",
		OriginalKey: "blog/p-1/original.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, shared.TypeProcessBlogCover, task.Type())

	var got shared.ProcessBlogCoverPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, "blog/p-1/original.jpg", got.OriginalKey)
}

func TestNewTask_UnencodablePayload(t *testing.T) {
	_, err := NewTask(shared.TypePurgeDeleted, map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestTaskOptions_EveryTypeRegistered(t *testing.T) {
	for _, typ := range []string{
		shared.TypeLeadInquiryEmail,
		shared.TypePasswordResetNotice,
		shared.TypeProcessBlogCover,
		shared.TypePurgeDeleted,
	} {
		assert.NotEmpty(t, taskOptions[typ], typ)
	}
}
