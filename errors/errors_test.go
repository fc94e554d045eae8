package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *AppError
		expected string
	}{
		{
			name: "ErrorWithoutCause",
			setup: func() *AppError {
				return New(ValidationError, "test validation error")
			},
			expected: "VALIDATION_ERROR: test validation error",
		},
		{
			name: "ErrorWithCause",
			setup: func() *AppError {
				cause := fmt.Errorf("original error")
				return Wrap(DatabaseError, "database operation failed", cause)
			},
			expected: "DATABASE_ERROR: database operation failed (caused by: original error)",
		},
		{
			name: "PushErrorWithCause",
			setup: func() *AppError {
				cause := fmt.Errorf("endpoint unreachable")
				return NewPushError("failed to deliver notification", cause)
			},
			expected: "PUSH_ERROR: failed to deliver notification (caused by: endpoint unreachable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup()
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("original error")
	err := Wrap(ExternalAPIError, "request failed", cause)
	assert.Equal(t, cause, err.Unwrap())

	noCause := New(ValidationError, "bad input")
	assert.Nil(t, noCause.Unwrap())
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ValidationError, "VALIDATION_ERROR"},
		{NotFoundError, "NOT_FOUND_ERROR"},
		{AlreadyExistsError, "ALREADY_EXISTS_ERROR"},
		{DatabaseError, "DATABASE_ERROR"},
		{ExternalAPIError, "EXTERNAL_API_ERROR"},
		{PushError, "PUSH_ERROR"},
		{ConfigurationError, "CONFIGURATION_ERROR"},
		{ErrorTypeUnknown, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorType.String())
		})
	}
}

func TestErrorTypeCheckers(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("bad")))
	assert.True(t, IsNotFoundError(NewNotFoundError("missing")))
	assert.True(t, IsAlreadyExistsError(NewAlreadyExistsError("duplicate")))
	assert.True(t, IsDatabaseError(NewDatabaseError("db", nil)))
	assert.True(t, IsPushError(NewPushError("push", nil)))
	assert.True(t, IsConfigurationError(NewConfigurationError("config", nil)))

	assert.False(t, IsPushError(NewValidationError("bad")))
	assert.False(t, IsValidationError(fmt.Errorf("plain error")))
}
