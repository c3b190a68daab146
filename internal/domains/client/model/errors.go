package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-backend/internal/shared/response"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientNotDeleted = errors.New("client is not deleted")
	ErrInvalidClientID  = errors.New("invalid client id")
	ErrEmptyPatch       = errors.New("no fields to update")
	ErrInvalidDate      = errors.New("invalid date")
	ErrSourceLeadTaken  = errors.New("a client already exists for this lead")
)

var clientErrorMap = map[error]response.ErrorEntry{
	ErrClientNotFound:   {Status: http.StatusNotFound, Code: "CLIENT_NOT_FOUND", Message: "Client not found"},
	ErrClientNotDeleted: {Status: http.StatusConflict, Code: "CLIENT_NOT_DELETED", Message: "Only deleted clients can be restored or purged"},
	ErrInvalidClientID:  {Status: http.StatusBadRequest, Code: "INVALID_ID", Message: "Invalid client id"},
	ErrEmptyPatch:       {Status: http.StatusBadRequest, Code: "EMPTY_PATCH", Message: "No fields to update"},
	ErrInvalidDate:      {Status: http.StatusBadRequest, Code: "INVALID_DATE", Message: "lastContactedAt must be an ISO date or a date in the display format"},
	ErrSourceLeadTaken:  {Status: http.StatusConflict, Code: "SOURCE_LEAD_TAKEN", Message: "A client already exists for this lead"},
}

// HandleClientError writes the mapped response for err; unknown errors become 500.
func HandleClientError(c *gin.Context, err error) {
	if response.HandleMapped(c, err, clientErrorMap) {
		return
	}
	response.InternalServerError(c)
}
