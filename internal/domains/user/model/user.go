package model

import (
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/shared/utils"
)

const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleEditor = "editor"
)

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleAgent, RoleEditor}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User mirrors the users table. It doubles as the back-office profile.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Phone        *string    `json:"phone,omitempty"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// UserView is the camelCase representation returned by the API.
type UserView struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"fullName"`
	Phone          *string `json:"phone"`
	Role           string  `json:"role"`
	IsActive       bool    `json:"isActive"`
	LastLoginAt    string  `json:"lastLoginAt"`
	LastLoginAtIso *string `json:"lastLoginAtIso"`
	CreatedAt      string  `json:"createdAt"`
	CreatedAtIso   string  `json:"createdAtIso"`
	UpdatedAt      string  `json:"updatedAt"`
	UpdatedAtIso   string  `json:"updatedAtIso"`
	DeletedAt      string  `json:"deletedAt"`
	DeletedAtIso   *string `json:"deletedAtIso"`
}

func (u *User) ToView(locale string) UserView {
	return UserView{
		ID:             u.ID.String(),
		Email:          u.Email,
		FullName:       u.FullName,
		Phone:          u.Phone,
		Role:           u.Role,
		IsActive:       u.IsActive,
		LastLoginAt:    utils.FormatTimePtr(u.LastLoginAt, locale),
		LastLoginAtIso: utils.ISOPtr(u.LastLoginAt),
		CreatedAt:      utils.FormatTime(u.CreatedAt, locale),
		CreatedAtIso:   u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      utils.FormatTime(u.UpdatedAt, locale),
		UpdatedAtIso:   u.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:      utils.FormatTimePtr(u.DeletedAt, locale),
		DeletedAtIso:   utils.ISOPtr(u.DeletedAt),
	}
}

func ToViews(users []User, locale string) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].ToView(locale))
	}
	return views
}

// AuthResult is returned by Login and Refresh.
type AuthResult struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         *User     `json:"-"`
}

// UserFilter is the repository-side form of ListUsersRequest.
type UserFilter struct {
	Role     string
	IsActive *bool
	Search   string
	Sort     string
	Order    string
	Limit    int
	Offset   int
}
