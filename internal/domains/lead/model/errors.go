package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-backend/internal/shared/response"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrLeadNotDeleted  = errors.New("lead is not deleted")
	ErrLeadDeleted     = errors.New("lead is deleted")
	ErrInvalidLeadID   = errors.New("invalid lead id")
	ErrEmptyPatch      = errors.New("no fields to update")
	ErrAssigneeMissing = errors.New("assigned user does not exist")
)

var leadErrorMap = map[error]response.ErrorEntry{
	ErrLeadNotFound:    {Status: http.StatusNotFound, Code: "LEAD_NOT_FOUND", Message: "Lead not found"},
	ErrLeadNotDeleted:  {Status: http.StatusConflict, Code: "LEAD_NOT_DELETED", Message: "Only deleted leads can be restored or purged"},
	ErrLeadDeleted:     {Status: http.StatusConflict, Code: "LEAD_DELETED", Message: "Deleted leads cannot be converted; restore it first"},
	ErrInvalidLeadID:   {Status: http.StatusBadRequest, Code: "INVALID_ID", Message: "Invalid lead id"},
	ErrEmptyPatch:      {Status: http.StatusBadRequest, Code: "EMPTY_PATCH", Message: "No fields to update"},
	ErrAssigneeMissing: {Status: http.StatusBadRequest, Code: "ASSIGNEE_NOT_FOUND", Message: "Assigned user does not exist"},
}

// HandleLeadError writes the mapped response for err; unknown errors become 500.
func HandleLeadError(c *gin.Context, err error) {
	if response.HandleMapped(c, err, leadErrorMap) {
		return
	}
	response.InternalServerError(c)
}
