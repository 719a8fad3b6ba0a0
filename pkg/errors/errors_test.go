package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "validation", err: errors.New("invalid unit price: must not be negative"), code: CodeValidationError, status: http.StatusBadRequest},
		{name: "required", err: errors.New("item name is required"), code: CodeValidationError, status: http.StatusBadRequest},
		{name: "conflict", err: errors.New("inventory audit already adjusted"), code: CodeConflict, status: http.StatusConflict},
		{name: "wrapped conflict", err: fmt.Errorf("apply audit: %w", errors.New("inventory audit already adjusted")), code: CodeConflict, status: http.StatusConflict},
		{name: "deadline", err: context.DeadlineExceeded, code: CodeTimeout, status: http.StatusGatewayTimeout},
		{name: "unknown", err: errors.New("disk on fire"), code: CodeInternalError, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapDomainError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestMapDomainError_KeepsAppError(t *testing.T) {
	original := ErrNotFoundWithID("purchase", "PUR-0009")
	wrapped := fmt.Errorf("lookup: %w", original)

	assert.Same(t, original, MapDomainError(wrapped))
	assert.Nil(t, MapDomainError(nil))
}

func TestFromError(t *testing.T) {
	appErr := FromError(errors.New("x"))
	assert.Equal(t, CodeInternalError, appErr.Code)
	assert.Equal(t, "an internal error occurred", appErr.Message)
}

func TestMapDomainError_RegisteredSentinelWins(t *testing.T) {
	errLocked := errors.New("stock is locked")
	RegisterSentinel(errLocked, ErrConflict)
	defer func() { sentinels = sentinels[:len(sentinels)-1] }()

	appErr := MapDomainError(fmt.Errorf("write: %w", errLocked))
	assert.Equal(t, CodeConflict, appErr.Code)
}
