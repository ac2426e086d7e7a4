// Package apperrors defines the error codes the HTTP boundary exposes.
// Codes are stable: clients branch on them.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "BAD_REQUEST"
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeAccountDisabled    ErrorCode = "ACCOUNT_DISABLED"
	CodeNotFound           ErrorCode = "NOT_FOUND"

	CodeLLMRateLimited     ErrorCode = "LLM_RATE_LIMITED"
	CodeLLMUnavailable     ErrorCode = "LLM_UNAVAILABLE"
	CodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	CodeLLMResponseInvalid ErrorCode = "LLM_RESPONSE_INVALID"

	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the code.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeAccountDisabled:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeLLMRateLimited:
		return http.StatusTooManyRequests
	case CodeLLMUnavailable, CodeLLMResponseInvalid:
		return http.StatusBadGateway
	case CodeLLMTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error
func New(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

func NewBadRequestError(details string) *AppError {
	return New(CodeBadRequest, "Malformed request", details)
}

// NewValidationError reports a rejected input field.
func NewValidationError(field, details string) *AppError {
	return New(CodeValidationFailed, "Validation failed", details).WithMetadata("field", field)
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return New(CodeUnauthorized, message, "")
}

func NewInvalidCredentialsError() *AppError {
	return New(CodeInvalidCredentials, "Invalid credentials", "The nickname or password is incorrect")
}

func NewAccountDisabledError() *AppError {
	return New(CodeAccountDisabled, "Account disabled", "")
}

func NewNotFoundError(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return New(CodeDatabaseError, "Database operation failed", fmt.Sprintf("Failed to %s", operation)).WithCause(cause)
}

func NewInternalError(cause error) *AppError {
	return New(CodeInternal, "An unexpected error occurred", "").WithCause(cause)
}

// As extracts an AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
