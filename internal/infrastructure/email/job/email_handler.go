package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/infrastructure/email"
	"realestate-backend/internal/shared"
)

// ============================================
// Lead Inquiry Email Handler
// ============================================

type LeadInquiryEmailHandler struct {
	emailService  email.EmailService
	publicBaseURL string
}

func NewLeadInquiryEmailHandler(emailService email.EmailService, publicBaseURL string) *LeadInquiryEmailHandler {
	return &LeadInquiryEmailHandler{
		emailService:  emailService,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (h *LeadInquiryEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.LeadInquiryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal LeadInquiry payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("lead_id", payload.LeadID).
		Msg("Processing lead inquiry email")

	data := email.LeadInquiryData{
		LeadID:           payload.LeadID,
		Name:             payload.Name,
		Email:            payload.Email,
		Phone:            payload.Phone,
		Message:          payload.Message,
		PropertyInterest: payload.PropertyInterest,
		SubmittedAt:      payload.SubmittedAt,
	}
	if h.publicBaseURL != "" && payload.LeadID != "" {
		data.AdminURL = fmt.Sprintf("%s/admin/leads/%s", h.publicBaseURL, payload.LeadID)
	}

	if err := h.emailService.SendLeadInquiry(ctx, data); err != nil {
		log.Error().Err(err).Str("lead_id", payload.LeadID).Msg("Failed to send lead inquiry email")
		return fmt.Errorf("send lead inquiry email: %w", err)
	}

	log.Info().
		Str("lead_id", payload.LeadID).
		Msg("Lead inquiry email sent")

	return nil
}

// ============================================
// Password Reset Notice Handler
// ============================================

type PasswordResetNoticeHandler struct {
	emailService email.EmailService
}

func NewPasswordResetNoticeHandler(emailService email.EmailService) *PasswordResetNoticeHandler {
	return &PasswordResetNoticeHandler{
		emailService: emailService,
	}
}

func (h *PasswordResetNoticeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PasswordResetNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PasswordResetNotice payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("user_id", payload.UserID).
		Msg("Processing password reset notice")

	err := h.emailService.SendPasswordResetNotice(ctx, email.PasswordResetNoticeData{
		Email:    payload.Email,
		FullName: payload.FullName,
		ResetBy:  payload.ResetBy,
		ResetAt:  payload.ResetAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send password reset notice")
		return fmt.Errorf("send password reset notice: %w", err)
	}

	return nil
}
