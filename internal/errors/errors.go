// Package errors defines structured error types for the API.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode defines specific error types for the API.
type ErrorCode string

const (
	// ErrValidationFailed is returned when input data fails validation
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrMissingField is returned when a required field is missing
	ErrMissingField ErrorCode = "MISSING_FIELD"

	// ErrNotFound is returned when a resource is not found
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrWorkspaceNotFound is returned when a workspace folder is not found
	ErrWorkspaceNotFound ErrorCode = "WORKSPACE_NOT_FOUND"

	// ErrStorageError is returned when a blob storage operation fails
	ErrStorageError ErrorCode = "STORAGE_ERROR"

	// ErrInternal is returned when an unexpected server error occurs
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	// ErrUnauthorized is returned when authentication is missing or invalid
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrRateLimited is returned when a client exceeds its request budget
	ErrRateLimited ErrorCode = "RATE_LIMITED"
)

// ErrorWithStatus is an error that includes an HTTP status code and error code.
type ErrorWithStatus interface {
	Error() string
	StatusCode() int
	Code() ErrorCode
	Details() map[string]any
}

// APIError is a concrete error type with status code, code, and optional details.
type APIError struct {
	statusCode int
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, code ErrorCode, message string) *APIError {
	return &APIError{
		statusCode: statusCode,
		code:       code,
		message:    message,
		details:    make(map[string]any),
	}
}

// WithDetail adds a single detail to the error.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *APIError) Wrap(err error) *APIError {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Code returns the error code.
func (e *APIError) Code() ErrorCode {
	return e.code
}

// Details returns additional error details.
func (e *APIError) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *APIError) Unwrap() error {
	return e.wrappedErr
}

// Predefined error constructors for common cases

// NotFound creates a 404 Not Found error.
func NotFound(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrNotFound, fmt.Sprintf("%s not found", resource))
}

// WorkspaceNotFound creates a 404 for a missing workspace folder.
func WorkspaceNotFound(name string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrWorkspaceNotFound, fmt.Sprintf("workspace %q not found", name)).
		WithDetail("workspace", name)
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrValidationFailed, message)
}

// MissingField creates a 400 Bad Request error for a missing field.
func MissingField(fieldName string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrMissingField, fmt.Sprintf("Missing required field: %s", fieldName))
}

// Unauthorized returns a 401 Unauthorized error.
func Unauthorized() error {
	return NewAPIError(http.StatusUnauthorized, ErrUnauthorized, "Unauthorized")
}

// Internal returns a 500 Internal Server Error.
func Internal(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrInternal, message)
}

// StorageFailed creates a 502 for a storage operation that degraded to its
// failure sentinel. The underlying cause is in the server log, not the
// response; the storage layer does not surface it.
func StorageFailed(operation string) *APIError {
	return NewAPIError(http.StatusBadGateway, ErrStorageError, fmt.Sprintf("storage operation %s failed", operation)).
		WithDetail("operation", operation)
}

// RateLimited creates a 429 with the retry delay in seconds.
func RateLimited(retryAfter int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrRateLimited, "Rate limit exceeded").
		WithDetail("retry_after", retryAfter)
}
