package dto

import (
	"net/http"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError(ErrCodeNotFound, "Service not found", http.StatusNotFound)
	expected := "NOT_FOUND: Service not found"
	if err.Error() != expected {
		t.Errorf("expected %s, got %s", expected, err.Error())
	}

	causeErr := &APIError{Code: ErrCodeInternalError, Message: "internal error"}
	err = err.WithCause(causeErr)
	expectedWithCause := "NOT_FOUND: Service not found (caused by: INTERNAL_ERROR: internal error)"
	if err.Error() != expectedWithCause {
		t.Errorf("expected %s, got %s", expectedWithCause, err.Error())
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	err := NewAPIError(ErrCodeNotFound, "Service not found", http.StatusNotFound)
	details := map[string]interface{}{"service": "dify-api"}

	err = err.WithDetails(details)

	if err.Details["service"] != "dify-api" {
		t.Errorf("expected service 'dify-api', got %v", err.Details["service"])
	}
}

func TestNewServiceNotFoundError(t *testing.T) {
	err := NewServiceNotFoundError("ghost")

	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["service"] != "ghost" {
		t.Errorf("expected service 'ghost' in details, got %v", err.Details["service"])
	}
}

func TestValidationErrors_AddErrorAndHasErrors(t *testing.T) {
	validationErrors := NewValidationError()

	if validationErrors.HasErrors() {
		t.Error("expected no errors initially")
	}

	validationErrors.AddError("url", "must be a valid URL")
	validationErrors.AddError("key", "is required")

	if !validationErrors.HasErrors() {
		t.Error("expected to have errors after adding two")
	}
	if len(validationErrors.Errors) != 2 {
		t.Errorf("expected 2 validation errors, got %d", len(validationErrors.Errors))
	}
}

func TestValidationErrors_ToAPIError(t *testing.T) {
	validationErrors := NewValidationError()
	validationErrors.AddError("url", "must be a valid URL")

	apiErr := validationErrors.ToAPIError()

	if apiErr.Code != ErrCodeValidationFailed {
		t.Errorf("expected code %s, got %s", ErrCodeValidationFailed, apiErr.Code)
	}
	if apiErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, apiErr.HTTPStatus)
	}
}
