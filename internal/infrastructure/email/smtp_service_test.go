package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/config"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(enabled bool, sendErr error) (*smtpEmailService, *[]sentMail) {
	var sent []sentMail
	svc := NewSMTPEmailService(config.EmailConfig{
		SMTPHost: "mail.local",
		SMTPPort: 1025,
		From:     "noreply@realestate.local",
		OpsInbox: "sales@realestate.local",
		Enabled:  enabled,
	}).(*smtpEmailService)

	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return sendErr
	}
	return svc, &sent
}

func TestSendLeadInquiry(t *testing.T) {
	svc, sent := newTestService(true, nil)

	err := svc.SendLeadInquiry(context.Background(), LeadInquiryData{
		LeadID:           "lead-1",
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		Phone:            "0901234567",
		Message:          "Looking for a 3br apartment",
		PropertyInterest: "Riverside tower",
		SubmittedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "mail.local:1025", mail.addr)
	assert.Equal(t, []string{"sales@realestate.local"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: New website inquiry from Jane Doe\r\n")
	assert.Contains(t, mail.msg, "Reply-To: jane@example.com\r\n")
	assert.Contains(t, mail.msg, "Property interest: Riverside tower")
	assert.Contains(t, mail.msg, "Looking for a 3br apartment")
}

func TestSendPasswordResetNotice(t *testing.T) {
	svc, sent := newTestService(true, nil)

	err := svc.SendPasswordResetNotice(context.Background(), PasswordResetNoticeData{
		Email:   "agent@realestate.local",
		ResetBy: "admin@realestate.local",
		ResetAt: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	assert.Equal(t, []string{"agent@realestate.local"}, (*sent)[0].to)
	assert.Contains(t, (*sent)[0].msg, "Hello agent@realestate.local")
	assert.NotContains(t, (*sent)[0].msg, "Reply-To")
}

func TestDeliver_DisabledAndFailures(t *testing.T) {
	disabled, sent := newTestService(false, nil)
	require.NoError(t, disabled.SendPasswordResetNotice(context.Background(), PasswordResetNoticeData{Email: "a@b.c"}))
	assert.Empty(t, *sent)

	failing, _ := newTestService(true, errors.New("connection refused"))
	err := failing.SendPasswordResetNotice(context.Background(), PasswordResetNoticeData{Email: "a@b.c"})
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, sent := newTestService(true, nil)
	assert.ErrorIs(t, ok.SendPasswordResetNotice(ctx, PasswordResetNoticeData{Email: "a@b.c"}), context.Canceled)
	assert.Empty(t, *sent)
}
