package http

import (
	"net/http"
)

// handleSummary returns the per-day, per-month and per-year totals for
// the authenticated account in one response.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.expenses.Summary(r.Context(), accountIDFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
