package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/domains/user/repository"
	"realestate-backend/internal/infrastructure/queue"
	"realestate-backend/internal/shared"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/cache"
)

const (
	defaultBcryptCost = 12
	userCacheTTL      = 15 * time.Minute
)

func userCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

type UserService struct {
	repo       repository.Repository
	cache      cache.Cache
	tokens     TokenIssuer
	revoker    TokenRevoker
	enqueuer   queue.Enqueuer
	bcryptCost int
	now        func() time.Time
}

func NewUserService(
	repo repository.Repository,
	cache cache.Cache,
	tokens TokenIssuer,
	revoker TokenRevoker,
	enqueuer queue.Enqueuer,
) *UserService {
	return &UserService{
		repo:       repo,
		cache:      cache,
		tokens:     tokens,
		revoker:    revoker,
		enqueuer:   enqueuer,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
	}
}

var _ Service = (*UserService)(nil)

// ========================================
// AUTH
// ========================================

func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, model.ErrAccountDisabled
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("failed to update last login")
	} else {
		u.LastLoginAt = &now
		s.invalidate(ctx, u.ID)
	}

	result, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("role", u.Role).Msg("user logged in")
	return result, nil
}

// Refresh rotates the token pair; the presented refresh token is revoked.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResult, error) {
	if refreshToken == "" {
		return nil, model.ErrInvalidToken
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check refresh token: %w", err)
	}
	if revoked {
		return nil, model.ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, model.ErrAccountDisabled
	}

	if claims.ExpiresAt != nil {
		if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return nil, fmt.Errorf("revoke refresh token: %w", err)
		}
	}

	return s.issueTokens(u)
}

// Logout revokes the access token and, when present, the refresh token.
func (s *UserService) Logout(ctx context.Context, accessJTI string, accessExpiry time.Time, refreshToken string) error {
	if err := s.revoker.Revoke(ctx, accessJTI, accessExpiry); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *UserService) issueTokens(u *model.User) (*model.AuthResult, error) {
	access, claims, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &model.AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         u,
	}, nil
}

// ========================================
// PROFILE
// ========================================

// GetProfile is cache-aside on user:<id>.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	key := userCacheKey(id)

	var cached model.User
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("user cache read failed")
	}
	if found {
		return &cached, nil
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, u, userCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("user cache write failed")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		req.FullName = &trimmed
	}

	if err := s.repo.UpdateProfile(ctx, id, req.FullName, req.Phone); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.repo.FindByID(ctx, id)
}

// ChangePassword reads the stored hash from the database; cached users carry none.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req model.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return model.ErrSamePassword
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ========================================
// USER ADMINISTRATION
// ========================================

// requireAdmin re-reads the caller from the users table; the token claim is
// not trusted for privileged operations.
func (s *UserService) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	role, active, err := s.repo.GetRoleStatus(ctx, callerID)
	if err != nil {
		if errors.Is(err, middleware.ErrPrincipalNotFound) {
			return model.ErrForbidden
		}
		return err
	}
	if !active {
		return model.ErrAccountDisabled
	}
	if role != model.RoleAdmin {
		return model.ErrForbidden
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, callerID uuid.UUID, req model.CreateUserRequest) (*model.User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        utils.NullIfEmpty(req.Phone),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", u.ID.String()).
		Str("role", u.Role).
		Str("created_by", callerID.String()).
		Msg("user created")
	return u, nil
}

func (s *UserService) ResetPassword(ctx context.Context, callerID, userID uuid.UUID, req model.ResetPasswordRequest) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.invalidate(ctx, userID)

	payload := shared.PasswordResetNoticePayload{
		UserID:   u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		ResetBy:  callerID.String(),
		ResetAt:  s.now().UTC(),
	}
	if err := s.enqueuer.Enqueue(ctx, shared.TypePasswordResetNotice, payload); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to enqueue password reset notice")
	}

	log.Info().Str("user_id", userID.String()).Str("reset_by", callerID.String()).Msg("password reset")
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, req model.ListUsersRequest) ([]model.User, int64, utils.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, utils.Pagination{}, err
	}

	p := utils.NewPagination(req.Page, req.Limit)
	users, total, err := s.repo.List(ctx, model.UserFilter{
		Role:     req.Role,
		IsActive: req.IsActive,
		Search:   req.Search,
		Sort:     req.Sort,
		Order:    req.Order,
		Limit:    p.Limit,
		Offset:   p.Offset(),
	})
	if err != nil {
		return nil, 0, p, err
	}
	return users, total, p, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.GetProfile(ctx, id)
}

func (s *UserService) UpdateRole(ctx context.Context, callerID, id uuid.UUID, req model.UpdateRoleRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if callerID == id && req.Role != model.RoleAdmin {
		return nil, model.ErrCannotModifySelf
	}

	if err := s.repo.UpdateRole(ctx, id, req.Role); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) UpdateStatus(ctx context.Context, callerID, id uuid.UUID, req model.UpdateStatusRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if callerID == id && !*req.IsActive {
		return nil, model.ErrCannotModifySelf
	}

	if err := s.repo.UpdateStatus(ctx, id, *req.IsActive); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, callerID, id uuid.UUID) error {
	if callerID == id {
		return model.ErrCannotModifySelf
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	log.Info().Str("user_id", id.String()).Str("deleted_by", callerID.String()).Msg("user deleted")
	return nil
}

func (s *UserService) GetRoleStatus(ctx context.Context, id uuid.UUID) (string, bool, error) {
	return s.repo.GetRoleStatus(ctx, id)
}

// ========================================
// HELPERS
// ========================================

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *UserService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, userCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("user cache invalidation failed")
	}
}
