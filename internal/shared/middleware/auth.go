package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared/response"
	jwtpkg "realestate-backend/pkg/jwt"
)

// AccessTokenCookie is set on login so the admin gate can read it.
const AccessTokenCookie = "access_token"

// Context keys set by AuthMiddleware.
const (
	ContextUserID      = "userID"
	ContextEmail       = "email"
	ContextRole        = "role"
	ContextTokenID     = "jti"
	ContextTokenExpiry = "tokenExpiry"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (*jwtpkg.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware authenticates a Bearer header or the access_token cookie.
func AuthMiddleware(tokens TokenValidator, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing access token")
			return
		}

		claims, err := authenticate(c.Request.Context(), tokens, revocations, token)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user ID in token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errInvalidToken = authError("Invalid or expired token")
	errRevokedToken = authError("Token has been revoked")
)

func authenticate(ctx context.Context, tokens TokenValidator, revocations RevocationChecker, token string) (*jwtpkg.Claims, error) {
	claims, err := tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, errInvalidToken
	}

	if revocations != nil {
		revoked, err := revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// fail open when Redis is unavailable
			log.Warn().Err(err).Msg("Token revocation check failed")
		} else if revoked {
			return nil, errRevokedToken
		}
	}

	return claims, nil
}

// TokenFromRequest reads "Authorization: Bearer <token>" or the cookie.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetRole returns the caller role; after RequireRole it is the stored role.
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// GetTokenInfo returns the token id and expiry for logout.
func GetTokenInfo(c *gin.Context) (string, time.Time) {
	var expiry time.Time
	if v, ok := c.Get(ContextTokenExpiry); ok {
		expiry, _ = v.(time.Time)
	}
	return c.GetString(ContextTokenID), expiry
}
