package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"realestate-backend/internal/shared/utils"
)

const (
	SourceWebsite       = "website"
	SourceReferral      = "referral"
	SourceListingPortal = "listing_portal"
	SourceWalkIn        = "walk_in"
	SourceSocial        = "social"
	SourceOther         = "other"

	PriorityHot  = "hot"
	PriorityWarm = "warm"
	PriorityCold = "cold"

	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusLost      = "lost"
	StatusConverted = "converted"
)

var (
	Sources    = []interface{}{SourceWebsite, SourceReferral, SourceListingPortal, SourceWalkIn, SourceSocial, SourceOther}
	Priorities = []interface{}{PriorityHot, PriorityWarm, PriorityCold}
	Statuses   = []interface{}{StatusNew, StatusContacted, StatusQualified, StatusLost, StatusConverted}

	// EditableStatuses excludes converted, which only ConvertLead sets.
	EditableStatuses = []interface{}{StatusNew, StatusContacted, StatusQualified, StatusLost}
)

// Lead mirrors the leads table.
type Lead struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Email             *string          `json:"email"`
	Phone             string           `json:"phone"`
	Source            string           `json:"source"`
	Priority          string           `json:"priority"`
	Status            string           `json:"status"`
	Budget            *decimal.Decimal `json:"budget"`
	PropertyInterest  *string          `json:"property_interest"`
	Notes             *string          `json:"notes"`
	AssignedTo        *uuid.UUID       `json:"assigned_to"`
	ConvertedClientID *uuid.UUID       `json:"converted_client_id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         *time.Time       `json:"deleted_at"`
}

func (l *Lead) IsConverted() bool {
	return l.ConvertedClientID != nil
}

type LeadView struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             *string `json:"email"`
	Phone             string  `json:"phone"`
	Source            string  `json:"source"`
	Priority          string  `json:"priority"`
	Status            string  `json:"status"`
	Budget            *string `json:"budget"`
	PropertyInterest  *string `json:"propertyInterest"`
	Notes             *string `json:"notes"`
	AssignedTo        *string `json:"assignedTo"`
	ConvertedClientID *string `json:"convertedClientId"`
	CreatedAt         string  `json:"createdAt"`
	CreatedAtIso      string  `json:"createdAtIso"`
	UpdatedAt         string  `json:"updatedAt"`
	UpdatedAtIso      string  `json:"updatedAtIso"`
	DeletedAt         string  `json:"deletedAt"`
	DeletedAtIso      *string `json:"deletedAtIso"`
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func (l *Lead) ToView(locale string) LeadView {
	v := LeadView{
		ID:                l.ID.String(),
		Name:              l.Name,
		Email:             l.Email,
		Phone:             l.Phone,
		Source:            l.Source,
		Priority:          l.Priority,
		Status:            l.Status,
		PropertyInterest:  l.PropertyInterest,
		Notes:             l.Notes,
		AssignedTo:        uuidString(l.AssignedTo),
		ConvertedClientID: uuidString(l.ConvertedClientID),
		CreatedAt:         utils.FormatTime(l.CreatedAt, locale),
		CreatedAtIso:      l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         utils.FormatTime(l.UpdatedAt, locale),
		UpdatedAtIso:      l.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:         utils.FormatTimePtr(l.DeletedAt, locale),
		DeletedAtIso:      utils.ISOPtr(l.DeletedAt),
	}
	if l.Budget != nil {
		s := utils.DecimalString(l.Budget)
		v.Budget = &s
	}
	return v
}

func ToViews(leads []Lead, locale string) []LeadView {
	views := make([]LeadView, 0, len(leads))
	for i := range leads {
		views = append(views, leads[i].ToView(locale))
	}
	return views
}

type LeadFilter struct {
	Search     string
	Source     string
	Priority   string
	Status     string
	AssignedTo *uuid.UUID
	Deleted    utils.DeletedScope
	Sort       string
	Order      string
	Limit      int // 0 = no limit
	Offset     int
}

// ExportColumns is the fixed column order of lead exports.
var ExportColumns = []string{
	"name", "email", "phone", "source", "priority", "status", "budget",
	"property_interest", "notes", "assigned_to", "created_at",
}

func (l *Lead) ExportRow() []string {
	assigned := ""
	if l.AssignedTo != nil {
		assigned = l.AssignedTo.String()
	}
	return []string{
		l.Name,
		utils.Deref(l.Email),
		l.Phone,
		l.Source,
		l.Priority,
		l.Status,
		utils.DecimalString(l.Budget),
		utils.Deref(l.PropertyInterest),
		utils.Deref(l.Notes),
		assigned,
		l.CreatedAt.UTC().Format("2006-01-02"),
	}
}

// ConversionInput carries the values of the client created from a lead.
type ConversionInput struct {
	ServiceType string
	FollowUp    string
	Status      string
	Notes       *string
	Now         time.Time
}

// ConversionResult is returned by ConvertLead.
type ConversionResult struct {
	LeadID           uuid.UUID `json:"leadId"`
	ClientID         uuid.UUID `json:"clientId"`
	AlreadyConverted bool      `json:"alreadyConverted"`
}
