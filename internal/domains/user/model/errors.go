package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-backend/internal/shared/response"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrForbidden          = errors.New("insufficient privileges")
	ErrCannotModifySelf   = errors.New("cannot change your own role, status or account")
	ErrInvalidUserID      = errors.New("invalid user id")
)

var userErrorMap = map[error]response.ErrorEntry{
	ErrUserNotFound:       {Status: http.StatusNotFound, Code: "USER_NOT_FOUND", Message: "User not found"},
	ErrEmailAlreadyExists: {Status: http.StatusConflict, Code: "EMAIL_EXISTS", Message: "A user with this email already exists"},
	ErrInvalidCredentials: {Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"},
	ErrAccountDisabled:    {Status: http.StatusForbidden, Code: "ACCOUNT_DISABLED", Message: "Account is disabled"},
	ErrInvalidToken:       {Status: http.StatusUnauthorized, Code: "INVALID_TOKEN", Message: "Invalid or expired token"},
	ErrTokenRevoked:       {Status: http.StatusUnauthorized, Code: "TOKEN_REVOKED", Message: "Token has been revoked"},
	ErrWrongPassword:      {Status: http.StatusBadRequest, Code: "WRONG_PASSWORD", Message: "Current password is incorrect"},
	ErrSamePassword:       {Status: http.StatusBadRequest, Code: "SAME_PASSWORD", Message: "New password must differ from the current one"},
	ErrForbidden:          {Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "Only admins can perform this action"},
	ErrCannotModifySelf:   {Status: http.StatusBadRequest, Code: "CANNOT_MODIFY_SELF", Message: "You cannot demote, disable or delete your own account"},
	ErrInvalidUserID:      {Status: http.StatusBadRequest, Code: "INVALID_ID", Message: "Invalid user id"},
}

// HandleUserError writes the mapped response for err; unknown errors become 500.
func HandleUserError(c *gin.Context, err error) {
	if response.HandleMapped(c, err, userErrorMap) {
		return
	}
	response.InternalServerError(c)
}
