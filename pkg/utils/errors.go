package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents an application error with its HTTP status
type CustomError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Type:    "validation_failed",
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewNotFoundError(resource string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewConflictError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Type:    "conflict",
		Message: "Conflicting record",
		Detail:  detail,
	}
}

// NewUnprocessableError is used for well-formed requests the current state
// cannot accept, such as applying to a closed job
func NewUnprocessableError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "unprocessable",
		Message: message,
	}
}

func NewTooManyRequestsError() *CustomError {
	return &CustomError{
		Code:    http.StatusTooManyRequests,
		Type:    "rate_limited",
		Message: "Too many requests, slow down",
	}
}

func NewServiceUnavailableError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusServiceUnavailable,
		Type:    "unavailable",
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Type:    "internal_error",
		Message: message,
	}
}
