package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared/response"
)

// ErrPrincipalNotFound is returned by RoleLookup for unknown or deleted users.
var ErrPrincipalNotFound = errors.New("principal not found")

// RoleLookup loads the stored role and active flag of a user.
type RoleLookup interface {
	GetRoleStatus(ctx context.Context, userID uuid.UUID) (role string, active bool, err error)
}

// RequireRole reloads the caller's role from storage instead of trusting the
// token claim, then checks it against roles.
func RequireRole(lookup RoleLookup, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		role, active, err := lookup.GetRoleStatus(c.Request.Context(), userID)
		if errors.Is(err, ErrPrincipalNotFound) {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer exists")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Role lookup failed")
			response.AbortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		if !active {
			response.AbortWithError(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled")
			return
		}

		c.Set(ContextRole, role)

		if !slices.Contains(roles, role) {
			response.AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient role")
			return
		}

		c.Next()
	}
}
