package main

import (
	"github.com/hibiken/asynq"

	blogJob "realestate-backend/internal/domains/blog/job"
	"realestate-backend/internal/infrastructure/email"
	emailjob "realestate-backend/internal/infrastructure/email/job"
	queueHandlers "realestate-backend/internal/infrastructure/queue/handlers"
	"realestate-backend/internal/shared"
	"realestate-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	leadInquiry         *emailjob.LeadInquiryEmailHandler
	passwordResetNotice *emailjob.PasswordResetNoticeHandler

	// Media handlers
	processCover *blogJob.ProcessCoverHandler

	// Maintenance handlers
	purgeDeleted *queueHandlers.PurgeDeletedHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.Email)

	return &HandlerRegistry{
		leadInquiry:         emailjob.NewLeadInquiryEmailHandler(emailSvc, c.Config.App.PublicBaseURL),
		passwordResetNotice: emailjob.NewPasswordResetNoticeHandler(emailSvc),

		processCover: blogJob.NewProcessCoverHandler(c.BlogService),

		purgeDeleted: queueHandlers.NewPurgeDeletedHandler(map[string]queueHandlers.Purger{
			"leads":      c.LeadRepo,
			"clients":    c.ClientRepo,
			"blog_posts": c.BlogService,
		}, c.Config.Jobs.RetentionDays),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeLeadInquiryEmail, h.leadInquiry.ProcessTask)
	mux.HandleFunc(shared.TypePasswordResetNotice, h.passwordResetNotice.ProcessTask)

	// Media tasks
	mux.HandleFunc(shared.TypeProcessBlogCover, h.processCover.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypePurgeDeleted, h.purgeDeleted.ProcessTask)
}
