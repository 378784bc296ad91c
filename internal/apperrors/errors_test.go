package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"taskclinic/backend/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind     apperrors.Kind
		expected int
	}{
		{apperrors.KindValidation, http.StatusBadRequest},
		{apperrors.KindAuthentication, http.StatusUnauthorized},
		{apperrors.KindAuthorization, http.StatusForbidden},
		{apperrors.KindNotFound, http.StatusNotFound},
		{apperrors.KindReference, http.StatusBadRequest},
		{apperrors.KindServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.HTTPStatus())
		})
	}
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", apperrors.ErrInvalidCredentials)
	assert.Equal(t, apperrors.KindAuthentication, apperrors.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, apperrors.ErrInvalidCredentials))

	plain := errors.New("connection refused")
	classified := apperrors.From(plain)
	assert.Equal(t, apperrors.KindServer, classified.Kind)
	assert.Equal(t, "something went wrong", classified.Message)
	assert.True(t, errors.Is(classified, plain))
}

func TestError_IsComparesKindAndCode(t *testing.T) {
	assert.True(t, errors.Is(apperrors.NotFound("task"), apperrors.NotFound("appointment")))
	assert.False(t, errors.Is(apperrors.NotFound("task"), apperrors.Forbidden("nope")))
	assert.False(t, errors.Is(apperrors.ErrDuplicateEmail, apperrors.ErrInvalidCredentials))
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(apperrors.Validation("title is required"), apperrors.ErrDuplicateEmail))
	assert.True(t, errors.Is(apperrors.ErrInvalidDoctor, apperrors.Reference("other doctor message")))
}
