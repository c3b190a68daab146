package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

// passwordRules is the shared password policy: 8-128 chars with upper, lower and digit.
func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("password is required"),
		validation.Length(8, 128).Error("password must be 8-128 characters"),
		validation.Match(upperRe).Error("password must contain at least one uppercase letter"),
		validation.Match(lowerRe).Error("password must contain at least one lowercase letter"),
		validation.Match(digitRe).Error("password must contain at least one number"),
	}
}

// ========================================
// AUTH
// ========================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest may be empty when the refresh token comes from the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ========================================
// PROFILE
// ========================================

type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

func (r UpdateProfileRequest) Validate() error {
	if r.FullName != nil {
		trimmed := strings.TrimSpace(*r.FullName)
		r.FullName = &trimmed
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Phone, validation.Length(0, 32)),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, passwordRules()...),
	)
}

// ========================================
// USER ADMINISTRATION
// ========================================

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat.Error("invalid email format"), validation.Length(5, 255)),
		validation.Field(&r.Password, passwordRules()...),
		validation.Field(&r.FullName, validation.Required.Error("full name is required"), validation.Length(2, 100)),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Role, validation.Required, validation.In(RoleAdmin, RoleAgent, RoleEditor).Error("role must be admin, agent or editor")),
	)
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, passwordRules()...),
	)
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(RoleAdmin, RoleAgent, RoleEditor).Error("role must be admin, agent or editor")),
	)
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsActive, validation.NotNil.Error("isActive is required")),
	)
}

// ListUsersRequest is bound from the query string.
type ListUsersRequest struct {
	Role     string `form:"role"`
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (r ListUsersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.When(r.Role != "", validation.In(RoleAdmin, RoleAgent, RoleEditor))),
		validation.Field(&r.Sort, validation.When(r.Sort != "", validation.In("email", "full_name", "created_at", "last_login_at"))),
		validation.Field(&r.Order, validation.When(r.Order != "", validation.In("asc", "desc"))),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(100)),
	)
}
