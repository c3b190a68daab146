package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/domains/user/service"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/internal/shared/response"
	"realestate-backend/internal/shared/utils"
)

const (
	RefreshTokenCookie = "refresh_token"
	refreshCookiePath  = "/api/v1/auth"
)

// Options carries the HTTP-level settings of the user handler.
type Options struct {
	Locale       string
	CookieSecure bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type UserHandler struct {
	service service.Service
	opts    Options
}

func NewUserHandler(svc service.Service, opts Options) *UserHandler {
	if opts.Locale == "" {
		opts.Locale = utils.DefaultLocale
	}
	return &UserHandler{service: svc, opts: opts}
}

func (h *UserHandler) locale(c *gin.Context) string {
	return utils.ResolveLocale(c.Query("locale"), h.opts.Locale)
}

// ========================================
// AUTH
// ========================================

// Login - POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	h.setAuthCookies(c, res)
	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
		"user":         res.User.ToView(h.locale(c)),
	})
}

// Refresh - POST /api/v1/auth/refresh
// The refresh token is read from the body or the refresh cookie.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(RefreshTokenCookie)
	}

	res, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	h.setAuthCookies(c, res)
	response.Success(c, http.StatusOK, "Token refreshed", gin.H{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout - POST /api/v1/auth/logout (authenticated)
func (h *UserHandler) Logout(c *gin.Context) {
	jti, expiry := middleware.GetTokenInfo(c)
	refresh, _ := c.Cookie(RefreshTokenCookie)

	if err := h.service.Logout(c.Request.Context(), jti, expiry, refresh); err != nil {
		log.Error().Err(err).Msg("logout failed")
		response.InternalServerError(c)
		return
	}

	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *UserHandler) setAuthCookies(c *gin.Context, res *model.AuthResult) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, res.AccessToken, int(h.opts.AccessTTL.Seconds()), "/", "", h.opts.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, res.RefreshToken, int(h.opts.RefreshTTL.Seconds()), refreshCookiePath, "", h.opts.CookieSecure, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.opts.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, refreshCookiePath, "", h.opts.CookieSecure, true)
}

// ========================================
// PROFILE (/api/v1/me)
// ========================================

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	u, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", u.ToView(h.locale(c)))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", u.ToView(h.locale(c)))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password changed", nil)
}

// ========================================
// ADMIN (/api/v1/admin/users)
// ========================================

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req model.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	users, total, p, err := h.service.ListUsers(c.Request.Context(), req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Users retrieved",
		model.ToViews(users, h.locale(c)), response.NewMeta(p.Page, p.Limit, total))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", u.ToView(h.locale(c)))
}

// CreateUser - POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), callerID, req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "User created", u.ToView(h.locale(c)))
}

// ResetPassword - POST /api/v1/admin/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), callerID, id, req); err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password reset", gin.H{"userId": id.String()})
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	u, err := h.service.UpdateRole(c.Request.Context(), callerID, id, req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Role updated", u.ToView(h.locale(c)))
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	u, err := h.service.UpdateStatus(c.Request.Context(), callerID, id, req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Status updated", u.ToView(h.locale(c)))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), callerID, id); err != nil {
		model.HandleUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleUserError(c, model.ErrInvalidUserID)
		return uuid.Nil, false
	}
	return id, true
}
