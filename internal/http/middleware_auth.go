package http

import (
	"context"
	"net/http"
	"strings"

	"spend/internal/core"
)

const sessionCookieName = "session"

type contextKey string

const accountIDContextKey contextKey = "account_id"

// authenticated resolves the session token and installs the verified
// account ID in the request context. Requests without a live session get
// a uniform 401 regardless of whether the token is missing, unknown or
// expired.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		accountID, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, core.ErrSessionExpired)
			return
		}
		ctx := context.WithValue(r.Context(), accountIDContextKey, accountID)
		next(w, r.WithContext(ctx))
	}
}

// sessionToken pulls the token from the session cookie, falling back to
// an Authorization bearer header for non-browser clients.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func accountIDFromRequest(r *http.Request) int64 {
	id, _ := r.Context().Value(accountIDContextKey).(int64)
	return id
}
