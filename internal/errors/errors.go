package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every operation answers with the same envelope: success, a human-readable
// message, and optional domain fields. No failure mode is thrown to callers.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new failure envelope
func NewAPIError(message string) *APIError {
	return &APIError{
		Success: false,
		Message: message,
	}
}

// RespondWithError sends a failure envelope
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required."
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied."
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found."
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request."
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict."
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(message))
}

// InternalError sends a 500 response. Store details never leak here; callers
// log them and pass a generic message.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "A server error occurred."
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(message))
}
