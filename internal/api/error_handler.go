package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := errors.AsAppError(err)

	// Log based on status code
	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

func errNotFound(r *http.Request) error {
	return errors.NewNotFoundError("route", r.Method+" "+r.URL.Path)
}

func errMethodNotAllowed(r *http.Request) error {
	return &errors.AppError{
		Code:    errors.ErrCodeBadRequest,
		Message: "method not allowed: " + r.Method,
		Status:  http.StatusMethodNotAllowed,
	}
}
