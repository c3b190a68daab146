package shared

import "time"

// Queues, in priority order.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// Task types
const (
	TypeLeadInquiryEmail    = "email:lead_inquiry"
	TypePasswordResetNotice = "email:password_reset_notice"
	TypeProcessBlogCover    = "blog:process_cover"
	TypePurgeDeleted        = "maintenance:purge_deleted"
)

// LeadInquiryPayload notifies the ops inbox about a website inquiry.
type LeadInquiryPayload struct {
	LeadID           string    `json:"leadId"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Message          string    `json:"message"`
	PropertyInterest string    `json:"propertyInterest"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// PasswordResetNoticePayload tells a user an admin reset their password.
type PasswordResetNoticePayload struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	ResetBy  string    `json:"resetBy"`
	ResetAt  time.Time `json:"resetAt"`
}

// ProcessBlogCoverPayload points at an uploaded original cover image.
type ProcessBlogCoverPayload struct {
	PostID      string `json:"postId"`
	OriginalKey string `json:"originalKey"`
}

// PurgeDeletedPayload hard deletes rows soft deleted more than
// RetentionDays ago.
type PurgeDeletedPayload struct {
	RetentionDays int `json:"retentionDays"`
}
