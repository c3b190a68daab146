package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
)

type LeadInquiryData struct {
	LeadID           string
	Name             string
	Email            string
	Phone            string
	Message          string
	PropertyInterest string
	SubmittedAt      time.Time
	AdminURL         string
}

type PasswordResetNoticeData struct {
	Email    string
	FullName string
	ResetBy  string
	ResetAt  time.Time
}

type EmailService interface {
	SendLeadInquiry(ctx context.Context, data LeadInquiryData) error
	SendPasswordResetNotice(ctx context.Context, data PasswordResetNoticeData) error
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpHost string
	from     string
	opsInbox string
	auth     smtp.Auth
	enabled  bool
	send     sendFunc
}

func NewSMTPEmailService(cfg config.EmailConfig) EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)
	}

	return &smtpEmailService{
		smtpAddr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		smtpHost: cfg.SMTPHost,
		from:     cfg.From,
		opsInbox: cfg.OpsInbox,
		auth:     auth,
		enabled:  cfg.Enabled,
		send:     smtp.SendMail,
	}
}

func (s *smtpEmailService) SendLeadInquiry(ctx context.Context, data LeadInquiryData) error {
	subject := fmt.Sprintf("New website inquiry from %s", data.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "A new inquiry was submitted on %s.\r\n\r\n", data.SubmittedAt.UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, "Name: %s\r\n", data.Name)
	fmt.Fprintf(&b, "Phone: %s\r\n", data.Phone)
	if data.Email != "" {
		fmt.Fprintf(&b, "Email: %s\r\n", data.Email)
	}
	if data.PropertyInterest != "" {
		fmt.Fprintf(&b, "Property interest: %s\r\n", data.PropertyInterest)
	}
	if data.Message != "" {
		fmt.Fprintf(&b, "\r\n%s\r\n", data.Message)
	}
	if data.AdminURL != "" {
		fmt.Fprintf(&b, "\r\nOpen the lead: %s\r\n", data.AdminURL)
	}

	return s.deliver(ctx, s.opsInbox, subject, b.String(), data.Email)
}

func (s *smtpEmailService) SendPasswordResetNotice(ctx context.Context, data PasswordResetNoticeData) error {
	subject := "Your password was reset"
	name := data.FullName
	if name == "" {
		name = data.Email
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\n"+
		"Your back office password was reset by %s on %s.\r\n"+
		"Sign in with the new password you received from your administrator and change it from your profile.\r\n\r\n"+
		"If you did not expect this, contact your administrator immediately.\r\n",
		name, data.ResetBy, data.ResetAt.UTC().Format(time.RFC1123))

	return s.deliver(ctx, data.Email, subject, body, "")
}

func (s *smtpEmailService) deliver(ctx context.Context, to, subject, body, replyTo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.enabled {
		log.Info().Str("to", to).Str("subject", subject).Msg("[EMAIL] Delivery disabled, skipping")
		return nil
	}

	msg := buildMessage(s.from, to, replyTo, subject, body)
	if err := s.send(s.smtpAddr, s.auth, s.from, []string{to}, msg); err != nil {
		log.Error().Err(err).Str("to", to).Str("smtp_addr", s.smtpAddr).Msg("[EMAIL] Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func buildMessage(from, to, replyTo, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	if replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
