package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeAccountDisabled, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeLLMRateLimited, http.StatusTooManyRequests},
		{CodeLLMUnavailable, http.StatusBadGateway},
		{CodeLLMResponseInvalid, http.StatusBadGateway},
		{CodeLLMTimeout, http.StatusGatewayTimeout},
		{CodeDatabaseError, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, New(tt.code, "m", "").StatusCode())
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("failed to save: %w", NewDatabaseError("insert recipe", cause))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, CodeDatabaseError, appErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeDatabaseError))
	assert.False(t, HasCode(cause, CodeDatabaseError))
}

func TestValidationErrorMetadata(t *testing.T) {
	err := NewValidationError("age", "age must be between 0 and 150")
	assert.Equal(t, "age", err.Metadata["field"])
	assert.Equal(t, "VALIDATION_FAILED: Validation failed (age must be between 0 and 150)", err.Error())
}
