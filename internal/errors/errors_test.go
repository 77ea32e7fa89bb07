package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/eduplay/internal/errors"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
	}{
		{"not found", errors.NewNotFoundError("quiz session", "abc"), errors.ErrCodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("mode", "unknown"), errors.ErrCodeValidation, http.StatusBadRequest},
		{"bad request", errors.NewBadRequestError("invalid json"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{"internal", errors.NewInternalError(stderrors.New("disk")), errors.ErrCodeInternal, http.StatusInternalServerError},
		{"upstream", errors.NewUpstreamError("export failed", stderrors.New("status 500")), errors.ErrCodeUpstream, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Contains(t, tt.err.Error(), tt.code)
		})
	}
}

func TestAsAppError(t *testing.T) {
	inner := errors.NewNotFoundError("quiz session", 7)
	wrapped := fmt.Errorf("lookup: %w", inner)
	assert.Same(t, inner, errors.AsAppError(wrapped))

	plain := stderrors.New("boom")
	appErr := errors.AsAppError(plain)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)
}
