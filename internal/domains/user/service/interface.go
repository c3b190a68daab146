package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/shared/utils"
	jwtpkg "realestate-backend/pkg/jwt"
)

// Service is the business contract of the user domain.
type Service interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthResult, error)
	Logout(ctx context.Context, accessJTI string, accessExpiry time.Time, refreshToken string) error

	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req model.ChangePasswordRequest) error

	CreateUser(ctx context.Context, callerID uuid.UUID, req model.CreateUserRequest) (*model.User, error)
	ResetPassword(ctx context.Context, callerID, userID uuid.UUID, req model.ResetPasswordRequest) error
	ListUsers(ctx context.Context, req model.ListUsersRequest) ([]model.User, int64, utils.Pagination, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateRole(ctx context.Context, callerID, id uuid.UUID, req model.UpdateRoleRequest) (*model.User, error)
	UpdateStatus(ctx context.Context, callerID, id uuid.UUID, req model.UpdateStatusRequest) (*model.User, error)
	DeleteUser(ctx context.Context, callerID, id uuid.UUID) error

	// GetRoleStatus satisfies middleware.RoleLookup.
	GetRoleStatus(ctx context.Context, id uuid.UUID) (string, bool, error)
}

// TokenIssuer is implemented by *jwt.Manager.
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, *jwtpkg.Claims, error)
	GenerateRefreshToken(userID string) (string, error)
	ValidateRefreshToken(token string) (*jwtpkg.Claims, error)
}

// TokenRevoker is implemented by *jwt.RevocationStore.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
