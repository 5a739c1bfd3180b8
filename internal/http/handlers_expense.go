package http

import (
	"net/http"
	"strconv"

	"spend/internal/core"
)

type expenseResponse struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Date        core.Date  `json:"date"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context(), accountIDFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cents, err := core.ParseDecimalToCents(parser.Get("amount"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(parser.Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	expense := core.Expense{
		Description: parser.Get("description"),
		Amount:      core.Money{Cents: cents},
		Date:        date,
	}

	created, err := s.expenses.Create(r.Context(), accountIDFromRequest(r), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

// handleDeleteExpense removes the expense. Deleting an expense that does
// not exist, was already deleted, or belongs to someone else responds 200
// all the same, so the endpoint leaks nothing about other accounts' data.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid expense id"})
		return
	}

	if err := s.expenses.Delete(r.Context(), accountIDFromRequest(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "deleted"})
}
