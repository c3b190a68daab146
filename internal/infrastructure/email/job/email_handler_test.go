package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/infrastructure/email"
	"realestate-backend/internal/shared"
)

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendLeadInquiry(ctx context.Context, data email.LeadInquiryData) error {
	return m.Called(ctx, data).Error(0)
}

func (m *mockEmailService) SendPasswordResetNotice(ctx context.Context, data email.PasswordResetNoticeData) error {
	return m.Called(ctx, data).Error(0)
}

func task(t *testing.T, typ string, payload interface{}) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(typ, b)
}

func TestLeadInquiryEmailHandler(t *testing.T) {
	svc := new(mockEmailService)
	h := NewLeadInquiryEmailHandler(svc, "https://homes.example/")

	submitted := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.On("SendLeadInquiry", mock.Anything, mock.MatchedBy(func(d email.LeadInquiryData) bool {
		return d.LeadID == "l-1" && d.AdminURL == "https://homes.example/admin/leads/l-1" && d.SubmittedAt.Equal(submitted)
	})).Return(nil).Once()

	err := h.ProcessTask(context.Background(), task(t, shared.TypeLeadInquiryEmail, shared.LeadInquiryPayload{
		LeadID: "l-1", Name: "Jane", Phone: "0901", SubmittedAt: submitted,
	}))
	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestLeadInquiryEmailHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewLeadInquiryEmailHandler(new(mockEmailService), "")

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeLeadInquiryEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestPasswordResetNoticeHandler(t *testing.T) {
	svc := new(mockEmailService)
	h := NewPasswordResetNoticeHandler(svc)

	svc.On("SendPasswordResetNotice", mock.Anything, mock.MatchedBy(func(d email.PasswordResetNoticeData) bool {
		return d.Email == "agent@x.io" && d.ResetBy == "admin@x.io"
	})).Return(errors.New("smtp down")).Once()

	err := h.ProcessTask(context.Background(), task(t, shared.TypePasswordResetNotice, shared.PasswordResetNoticePayload{
		UserID: "u-1", Email: "agent@x.io", ResetBy: "admin@x.io",
	}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	svc.AssertExpectations(t)
}
