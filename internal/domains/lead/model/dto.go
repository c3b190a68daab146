package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	clientmodel "realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/shared/utils"
)

func nonNegative(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validUUID(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	return is.UUID.Validate(s)
}

// LeadRequest is the body of create and full update.
type LeadRequest struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Source           string           `json:"source"`
	Priority         string           `json:"priority"`
	Status           string           `json:"status"`
	Budget           *decimal.Decimal `json:"budget"`
	PropertyInterest string           `json:"propertyInterest"`
	Notes            string           `json:"notes"`
	AssignedTo       string           `json:"assignedTo"`
}

// Validate checks the trimmed values, so whitespace-only name or phone is
// rejected the same way a CSV import rejects it.
func (r LeadRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 200)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Phone, validation.Required.Error("phone is required"), validation.Length(3, 32)),
		validation.Field(&r.Source, validation.In(Sources...)),
		validation.Field(&r.Priority, validation.In(Priorities...)),
		validation.Field(&r.Status, validation.In(EditableStatuses...)),
		validation.Field(&r.Budget, validation.By(nonNegative)),
		validation.Field(&r.PropertyInterest, validation.Length(0, 500)),
		validation.Field(&r.AssignedTo, validation.By(validUUID)),
	)
}

// WithDefaults fills empty enums with other / warm / new.
func (r LeadRequest) WithDefaults() LeadRequest {
	if r.Source == "" {
		r.Source = SourceOther
	}
	if r.Priority == "" {
		r.Priority = PriorityWarm
	}
	if r.Status == "" {
		r.Status = StatusNew
	}
	return r
}

// PatchLeadRequest is an inline table edit. An empty assignedTo unassigns
// the lead.
type PatchLeadRequest struct {
	Priority   *string `json:"priority"`
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	Notes      *string `json:"notes"`
}

func (r PatchLeadRequest) IsEmpty() bool {
	return r.Priority == nil && r.Status == nil && r.AssignedTo == nil && r.Notes == nil
}

func (r PatchLeadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Priority, validation.NilOrNotEmpty, validation.In(Priorities...)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(EditableStatuses...)),
		validation.Field(&r.AssignedTo, validation.By(validUUID)),
	)
}

type ListLeadsRequest struct {
	Search     string `form:"search"`
	Source     string `form:"source"`
	Priority   string `form:"priority"`
	Status     string `form:"status"`
	AssignedTo string `form:"assigned_to"`
	Deleted    string `form:"deleted"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// PrioritySort ranks hot before warm before cold.
const PrioritySort = "CASE priority WHEN 'hot' THEN 0 WHEN 'warm' THEN 1 ELSE 2 END"

var SortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"budget":     "budget",
	"priority":   PrioritySort,
}

func (r ListLeadsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Source, validation.In(Sources...)),
		validation.Field(&r.Priority, validation.In(Priorities...)),
		validation.Field(&r.Status, validation.In(Statuses...)),
		validation.Field(&r.AssignedTo, validation.By(validUUID)),
		validation.Field(&r.Deleted, validation.In(string(utils.ScopeActive), string(utils.ScopeDeleted), string(utils.ScopeAll))),
		validation.Field(&r.Sort, validation.By(func(v interface{}) error {
			if s, _ := v.(string); s != "" {
				if _, ok := SortColumns[s]; !ok {
					return errors.New("must be one of name, created_at, updated_at, budget, priority")
				}
			}
			return nil
		})),
		validation.Field(&r.Order, validation.In("asc", "desc", "ASC", "DESC")),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(utils.MaxPageLimit)),
	)
}

// ConvertLeadRequest overrides the defaults of the client created from a
// lead (buying / monthly / active, notes copied from the lead).
type ConvertLeadRequest struct {
	ServiceType string  `json:"serviceType"`
	FollowUp    string  `json:"followUp"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes"`
}

func (r ConvertLeadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceType, validation.In(clientmodel.ServiceTypes...)),
		validation.Field(&r.FollowUp, validation.In(clientmodel.FollowUps...)),
		validation.Field(&r.Status, validation.In(clientmodel.Statuses...)),
	)
}

// SubmitInquiryRequest is the public contact form.
type SubmitInquiryRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Message          string `json:"message"`
	PropertyInterest string `json:"propertyInterest"`
}

func (r SubmitInquiryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 200)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Phone, validation.Required.Error("phone is required"), validation.Length(3, 32)),
		validation.Field(&r.Message, validation.Length(0, 5000)),
		validation.Field(&r.PropertyInterest, validation.Length(0, 500)),
	)
}
