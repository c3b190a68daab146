package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"realestate-backend/internal/shared/utils"
)

const (
	ServiceBuying             = "buying"
	ServiceSelling            = "selling"
	ServiceRenting            = "renting"
	ServiceInvesting          = "investing"
	ServicePropertyManagement = "property_management"

	FollowUpWeekly    = "weekly"
	FollowUpBiweekly  = "biweekly"
	FollowUpMonthly   = "monthly"
	FollowUpQuarterly = "quarterly"
	FollowUpNone      = "none"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusClosed   = "closed"
)

var (
	ServiceTypes = []interface{}{ServiceBuying, ServiceSelling, ServiceRenting, ServiceInvesting, ServicePropertyManagement}
	FollowUps    = []interface{}{FollowUpWeekly, FollowUpBiweekly, FollowUpMonthly, FollowUpQuarterly, FollowUpNone}
	Statuses     = []interface{}{StatusActive, StatusInactive, StatusClosed}
)

// Client mirrors the clients table.
type Client struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Email           *string          `json:"email"`
	Phone           string           `json:"phone"`
	ServiceType     string           `json:"service_type"`
	FollowUp        string           `json:"follow_up"`
	Status          string           `json:"status"`
	Budget          *decimal.Decimal `json:"budget"`
	Address         *string          `json:"address"`
	Notes           *string          `json:"notes"`
	SourceLeadID    *uuid.UUID       `json:"source_lead_id"`
	LastContactedAt *time.Time       `json:"last_contacted_at"`
	NextFollowUpAt  *time.Time       `json:"next_follow_up_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       *time.Time       `json:"deleted_at"`
}

// NextFollowUp returns when a client on cadence should next be contacted,
// counting from from. The "none" cadence (or an unknown one) yields nil.
func NextFollowUp(cadence string, from time.Time) *time.Time {
	var next time.Time
	switch cadence {
	case FollowUpWeekly:
		next = from.AddDate(0, 0, 7)
	case FollowUpBiweekly:
		next = from.AddDate(0, 0, 14)
	case FollowUpMonthly:
		next = from.AddDate(0, 1, 0)
	case FollowUpQuarterly:
		next = from.AddDate(0, 3, 0)
	default:
		return nil
	}
	return &next
}

// ClientView is the camelCase representation returned by the API.
type ClientView struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              *string `json:"email"`
	Phone              string  `json:"phone"`
	ServiceType        string  `json:"serviceType"`
	FollowUp           string  `json:"followUp"`
	Status             string  `json:"status"`
	Budget             *string `json:"budget"`
	Address            *string `json:"address"`
	Notes              *string `json:"notes"`
	SourceLeadID       *string `json:"sourceLeadId"`
	LastContactedAt    string  `json:"lastContactedAt"`
	LastContactedAtIso *string `json:"lastContactedAtIso"`
	NextFollowUpAt     string  `json:"nextFollowUpAt"`
	NextFollowUpAtIso  *string `json:"nextFollowUpAtIso"`
	FollowUpDue        bool    `json:"followUpDue"`
	CreatedAt          string  `json:"createdAt"`
	CreatedAtIso       string  `json:"createdAtIso"`
	UpdatedAt          string  `json:"updatedAt"`
	UpdatedAtIso       string  `json:"updatedAtIso"`
	DeletedAt          string  `json:"deletedAt"`
	DeletedAtIso       *string `json:"deletedAtIso"`
}

func (c *Client) ToView(locale string, now time.Time) ClientView {
	v := ClientView{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		ServiceType:        c.ServiceType,
		FollowUp:           c.FollowUp,
		Status:             c.Status,
		Address:            c.Address,
		Notes:              c.Notes,
		LastContactedAt:    utils.FormatTimePtr(c.LastContactedAt, locale),
		LastContactedAtIso: utils.ISOPtr(c.LastContactedAt),
		NextFollowUpAt:     utils.FormatTimePtr(c.NextFollowUpAt, locale),
		NextFollowUpAtIso:  utils.ISOPtr(c.NextFollowUpAt),
		FollowUpDue:        c.NextFollowUpAt != nil && !c.NextFollowUpAt.After(now),
		CreatedAt:          utils.FormatTime(c.CreatedAt, locale),
		CreatedAtIso:       c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          utils.FormatTime(c.UpdatedAt, locale),
		UpdatedAtIso:       c.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:          utils.FormatTimePtr(c.DeletedAt, locale),
		DeletedAtIso:       utils.ISOPtr(c.DeletedAt),
	}
	if c.Budget != nil {
		s := utils.DecimalString(c.Budget)
		v.Budget = &s
	}
	if c.SourceLeadID != nil {
		s := c.SourceLeadID.String()
		v.SourceLeadID = &s
	}
	return v
}

func ToViews(clients []Client, locale string, now time.Time) []ClientView {
	views := make([]ClientView, 0, len(clients))
	for i := range clients {
		views = append(views, clients[i].ToView(locale, now))
	}
	return views
}

// ClientFilter is the repository-side form of ListClientsRequest.
type ClientFilter struct {
	Search      string
	ServiceType string
	Status      string
	FollowUp    string
	DueOnly     bool
	DueBefore   time.Time
	Deleted     utils.DeletedScope
	Sort        string
	Order       string
	Limit       int // 0 = no limit (exports)
	Offset      int
}

// ExportColumns is the fixed column order of client exports:
// name, email, phone, service_type, follow_up, status, budget, address,
// notes, last_contacted_at, next_follow_up_at, created_at.
var ExportColumns = []string{
	"name", "email", "phone", "service_type", "follow_up", "status", "budget",
	"address", "notes", "last_contacted_at", "next_follow_up_at", "created_at",
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// ExportRow renders c in ExportColumns order.
func (c *Client) ExportRow() []string {
	return []string{
		c.Name,
		utils.Deref(c.Email),
		c.Phone,
		c.ServiceType,
		c.FollowUp,
		c.Status,
		utils.DecimalString(c.Budget),
		utils.Deref(c.Address),
		utils.Deref(c.Notes),
		isoDate(c.LastContactedAt),
		isoDate(c.NextFollowUpAt),
		isoDate(&c.CreatedAt),
	}
}
