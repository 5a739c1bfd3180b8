package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spend/internal/core"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "username taken", err: core.ErrUsernameTaken, want: http.StatusConflict},
		{name: "invalid credentials", err: core.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "session expired", err: core.ErrSessionExpired, want: http.StatusUnauthorized},
		{name: "empty description", err: core.ErrEmptyDescription, want: http.StatusBadRequest},
		{name: "description too long", err: core.ErrDescriptionTooLong, want: http.StatusBadRequest},
		{name: "invalid amount", err: core.ErrInvalidAmount, want: http.StatusBadRequest},
		{name: "invalid date", err: core.ErrInvalidDate, want: http.StatusBadRequest},
		{name: "wrapped sentinel", err: fmt.Errorf("insert expense: %w", core.ErrInvalidDate), want: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpStatusFromError(tt.err); got != tt.want {
				t.Errorf("httpStatusFromError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteErrorPassesThroughStoreFaults(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/expenses", nil)

	writeError(rec, req, errors.New("database is locked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "database is locked") {
		t.Errorf("500 body does not carry the underlying error: %s", rec.Body.String())
	}
}

func TestWriteErrorUniform401(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/expenses", nil)

	writeError(rec, req, fmt.Errorf("token deadbeef: %w", core.ErrSessionExpired))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "deadbeef") {
		t.Errorf("401 body leaks token detail: %s", rec.Body.String())
	}
}
