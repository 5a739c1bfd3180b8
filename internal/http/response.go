package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spend/internal/core"
	applog "spend/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its status code and emits the JSON
// error body. Authentication failures get a fixed message so the response
// never reveals whether the username or the password was wrong.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromError(err)

	message := err.Error()
	if status == http.StatusUnauthorized {
		message = "authentication required"
		if errors.Is(err, core.ErrInvalidCredentials) {
			message = core.ErrInvalidCredentials.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, core.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyUsername),
		errors.Is(err, core.ErrEmptyPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
