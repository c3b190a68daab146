package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorEntry maps a domain error onto an HTTP reply.
type ErrorEntry struct {
	Status  int
	Code    string
	Message string
}

// HandleMapped writes the entry whose error matches err (errors.Is) and
// reports whether one was found. Field validation errors become a 400 with
// per-field details.
func HandleMapped(c *gin.Context, err error, table map[error]ErrorEntry) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		ErrorWithCode(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", verrs)
		return true
	}

	for target, entry := range table {
		if errors.Is(err, target) {
			ErrorWithCode(c, entry.Status, entry.Code, entry.Message, nil)
			return true
		}
	}
	return false
}
