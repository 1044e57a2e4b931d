package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("user", nil), http.StatusNotFound},
		{BadRequest("bad input", nil), http.StatusBadRequest},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("nope", nil), http.StatusForbidden},
		{Conflict("already exists", nil), http.StatusConflict},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("user with ID %s not found", "abc-123")
	assert.Equal(t, ErrNotFound, err.Code)
	assert.Contains(t, err.Message, "abc-123")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := BadRequest("wrapper", cause)
	assert.ErrorIs(t, err, cause)
}

func TestAsThroughWrapping(t *testing.T) {
	inner := Conflict("email taken", nil)
	wrapped := fmt.Errorf("creating user: %w", inner)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrConflict, appErr.Code)

	assert.True(t, IsCode(wrapped, ErrConflict))
	assert.False(t, IsCode(wrapped, ErrNotFound))
}

func TestIsCodeOnPlainError(t *testing.T) {
	assert.False(t, IsCode(errors.New("plain"), ErrNotFound))
}
