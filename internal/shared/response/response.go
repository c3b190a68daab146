package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody is the machine-readable part of a failed reply.
type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Meta carries pagination info for list endpoints.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewMeta(page, limit int, total int64) *Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error responds with a code derived from the status, e.g. 404 -> NOT_FOUND.
func Error(c *gin.Context, statusCode int, message string, details interface{}) {
	ErrorWithCode(c, statusCode, CodeForStatus(statusCode), message, details)
}

func ErrorWithCode(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:    code,
			Details: details,
		},
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, statusCode int, code, message string) {
	ErrorWithCode(c, statusCode, code, message, nil)
	c.Abort()
}

func CodeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusRequestEntityTooLarge:
		return "FILE_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	}
	text := http.StatusText(statusCode)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// Common error responses
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, message, details)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

func InternalServerError(c *gin.Context) {
	ErrorWithCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
