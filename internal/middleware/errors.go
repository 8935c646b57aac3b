package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/infralens/api/internal/validation"
)

// APIError represents a structured error response
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	RetryAfter int    `json:"retry_after_ms,omitempty"`
}

// Common error codes
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeNoModels           = "NO_MODELS"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// RespondError sends a structured error response
func RespondError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"error": APIError{
			Code:    code,
			Message: message,
		},
	})
}

// RespondErrorWithDetails sends a structured error response with details
func RespondErrorWithDetails(c *gin.Context, status int, code string, message string, details string) {
	c.JSON(status, gin.H{
		"error": APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// RespondErrorWithRetry sends a structured error response with retry hint
func RespondErrorWithRetry(c *gin.Context, status int, code string, message string, retryAfterMs int) {
	c.JSON(status, gin.H{
		"error": APIError{
			Code:       code,
			Message:    message,
			RetryAfter: retryAfterMs,
		},
	})
}

// ValidationFailed sends a 422 with one entry per rejected field
func ValidationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "Validation failed",
		"details": validation.Details(err),
	})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 error
func Unauthorized(c *gin.Context, message string) {
	RespondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// NotFound sends a 404 error
func NotFound(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// NoModels sends a 404 when no catalog tier could answer
func NoModels(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, ErrCodeNoModels, message)
}

// Conflict sends a 409 error
func Conflict(c *gin.Context, message string) {
	RespondError(c, http.StatusConflict, ErrCodeConflict, message)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// DatabaseError sends a 500 error for failed queries
func DatabaseError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, ErrCodeDatabaseError, message)
}
