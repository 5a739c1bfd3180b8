package http

import (
	"net/http"
)

type accountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	username := parser.Get("username")
	password := parser.GetPassword("password")

	account, err := s.auth.Register(r.Context(), username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{
		ID:       account.ID,
		Username: account.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := s.auth.Login(r.Context(), parser.Get("username"), parser.GetPassword("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie(token, int(s.opts.SessionTTL.Seconds())))
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// handleLogout deletes the session if one was presented. Logging out
// without a session still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), sessionToken(r)); err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (s *Server) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
