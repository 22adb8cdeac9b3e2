package dto

import (
	"fmt"
	"net/http"
)

// ErrorCode is a stable machine-readable error identifier, independent of
// the HTTP status and human message, so API clients can switch on it
// without string-matching the message.
type ErrorCode string

const (
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
)

// APIError is a structured error carrying both the wire-facing code/message
// and the HTTP status to respond with, grounded on the teacher's APIError
// but trimmed to the codes this daemon's handlers actually raise.
type APIError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func (e *APIError) WithDetails(details map[string]interface{}) *APIError {
	e.Details = details
	return e
}

func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

func NewAPIError(code ErrorCode, message string, httpStatus int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Predefined errors the HTTP Surface raises directly, per §7's taxonomy.
var (
	ErrServiceNotFound = NewAPIError(
		ErrCodeNotFound,
		"Service not found",
		http.StatusNotFound,
	)

	ErrRuntimeUnavailable = NewAPIError(
		ErrCodeServiceUnavailable,
		"container runtime unavailable",
		http.StatusServiceUnavailable,
	)

	ErrUnauthorized = NewAPIError(
		ErrCodeUnauthorized,
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrInternalError = NewAPIError(
		ErrCodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// NewServiceNotFoundError builds a 404 naming the unresolved service key.
func NewServiceNotFoundError(key string) *APIError {
	return NewAPIError(
		ErrCodeNotFound,
		fmt.Sprintf("service %q not found", key),
		http.StatusNotFound,
	).WithDetails(map[string]interface{}{"service": key})
}

// ValidationError is one field-specific validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field failure from a single validation
// pass so callers report all of them at once instead of one at a time.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError() *ValidationErrors {
	return &ValidationErrors{Errors: make([]ValidationError, 0)}
}

func (v *ValidationErrors) AddError(field, message string) {
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 1 {
		return fmt.Sprintf("validation failed for field '%s': %s", v.Errors[0].Field, v.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed for %d fields", len(v.Errors))
}

func (v *ValidationErrors) ToAPIError() *APIError {
	return NewAPIError(ErrCodeValidationFailed, v.Error(), http.StatusBadRequest).
		WithDetails(map[string]interface{}{"validation_errors": v.Errors})
}
