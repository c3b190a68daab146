package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

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

// ClientRequest is the body of create and full update.
// Optional enums fall back to buying / monthly / active.
type ClientRequest struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	ServiceType     string           `json:"serviceType"`
	FollowUp        string           `json:"followUp"`
	Status          string           `json:"status"`
	Budget          *decimal.Decimal `json:"budget"`
	Address         string           `json:"address"`
	Notes           string           `json:"notes"`
	LastContactedAt string           `json:"lastContactedAt"`
}

func (r ClientRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 200)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Phone, validation.Required.Error("phone is required"), validation.Length(3, 32)),
		validation.Field(&r.ServiceType, validation.In(ServiceTypes...)),
		validation.Field(&r.FollowUp, validation.In(FollowUps...)),
		validation.Field(&r.Status, validation.In(Statuses...)),
		validation.Field(&r.Budget, validation.By(nonNegative)),
		validation.Field(&r.Address, validation.Length(0, 500)),
	)
}

// WithDefaults fills empty enums.
func (r ClientRequest) WithDefaults() ClientRequest {
	if r.ServiceType == "" {
		r.ServiceType = ServiceBuying
	}
	if r.FollowUp == "" {
		r.FollowUp = FollowUpMonthly
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	return r
}

// PatchClientRequest is an inline table edit: only the present fields change.
// An empty lastContactedAt clears the date.
type PatchClientRequest struct {
	Status          *string `json:"status"`
	ServiceType     *string `json:"serviceType"`
	FollowUp        *string `json:"followUp"`
	Notes           *string `json:"notes"`
	LastContactedAt *string `json:"lastContactedAt"`
}

func (r PatchClientRequest) IsEmpty() bool {
	return r.Status == nil && r.ServiceType == nil && r.FollowUp == nil && r.Notes == nil && r.LastContactedAt == nil
}

func (r PatchClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(Statuses...)),
		validation.Field(&r.ServiceType, validation.NilOrNotEmpty, validation.In(ServiceTypes...)),
		validation.Field(&r.FollowUp, validation.NilOrNotEmpty, validation.In(FollowUps...)),
	)
}

// ListClientsRequest is bound from the query string; it also drives exports.
type ListClientsRequest struct {
	Search      string `form:"search"`
	ServiceType string `form:"service_type"`
	Status      string `form:"status"`
	FollowUp    string `form:"follow_up"`
	DueOnly     bool   `form:"due_only"`
	Deleted     string `form:"deleted"`
	Sort        string `form:"sort"`
	Order       string `form:"order"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

var SortColumns = map[string]string{
	"name":              "name",
	"created_at":        "created_at",
	"updated_at":        "updated_at",
	"budget":            "budget",
	"next_follow_up_at": "next_follow_up_at",
}

func (r ListClientsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceType, validation.In(ServiceTypes...)),
		validation.Field(&r.Status, validation.In(Statuses...)),
		validation.Field(&r.FollowUp, validation.In(FollowUps...)),
		validation.Field(&r.Deleted, validation.In(string(utils.ScopeActive), string(utils.ScopeDeleted), string(utils.ScopeAll))),
		validation.Field(&r.Sort, validation.By(func(v interface{}) error {
			if s, _ := v.(string); s != "" {
				if _, ok := SortColumns[s]; !ok {
					return errors.New("must be one of name, created_at, updated_at, budget, next_follow_up_at")
				}
			}
			return nil
		})),
		validation.Field(&r.Order, validation.In("asc", "desc", "ASC", "DESC")),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(utils.MaxPageLimit)),
	)
}
