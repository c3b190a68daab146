package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/user/model"
)

// Repository is the data access contract of the user domain.
type Repository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// GetRoleStatus backs middleware.RequireRole.
	GetRoleStatus(ctx context.Context, id uuid.UUID) (string, bool, error)
}
