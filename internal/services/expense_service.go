// Package services holds the application logic between the HTTP layer and
// storage.
package services

import (
	"context"
	"fmt"

	"spend/internal/core"
	"spend/internal/log"
)

// ExpenseStore is the persistence surface the expense service needs.
type ExpenseStore interface {
	InsertExpense(ctx context.Context, accountID int64, e core.Expense) (int64, error)
	ListExpenses(ctx context.Context, accountID int64) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, accountID, id int64) error
	DailyTotals(ctx context.Context, accountID int64) ([]core.DailyTotal, error)
	MonthlyTotals(ctx context.Context, accountID int64) ([]core.MonthlyTotal, error)
	YearlyTotals(ctx context.Context, accountID int64) ([]core.YearlyTotal, error)
}

// EventPublisher emits expense change events. Publishing is best effort;
// failures are logged and never fail the request.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, expenseID, accountID int64) error
	PublishExpenseDeleted(ctx context.Context, expenseID, accountID int64) error
}

type ExpenseService struct {
	store  ExpenseStore
	events EventPublisher
}

// NewExpenseService builds the service. events may be nil when no broker
// is configured.
func NewExpenseService(store ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// Create validates and persists an expense for the account.
func (s *ExpenseService) Create(ctx context.Context, accountID int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.store.InsertExpense(ctx, accountID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID = id
	e.AccountID = accountID

	log.FromContext(ctx).InfoContext(ctx, "Expense created",
		log.FieldAccountID, accountID,
		log.FieldExpenseID, id,
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldDate, e.Date.String())

	if s.events != nil {
		if err := s.events.PublishExpenseCreated(ctx, id, accountID); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Failed to publish expense created event",
				log.FieldExpenseID, id,
				log.FieldError, err)
		}
	}

	return e, nil
}

// List returns the account's expenses, newest date first.
func (s *ExpenseService) List(ctx context.Context, accountID int64) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Delete removes the expense if the account owns it. Deleting an unknown
// or already-deleted ID succeeds.
func (s *ExpenseService) Delete(ctx context.Context, accountID, id int64) error {
	if err := s.store.DeleteExpense(ctx, accountID, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	log.FromContext(ctx).InfoContext(ctx, "Expense deleted",
		log.FieldAccountID, accountID,
		log.FieldExpenseID, id)

	if s.events != nil {
		if err := s.events.PublishExpenseDeleted(ctx, id, accountID); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Failed to publish expense deleted event",
				log.FieldExpenseID, id,
				log.FieldError, err)
		}
	}

	return nil
}

// Summary aggregates the account's spending per day, month and year.
func (s *ExpenseService) Summary(ctx context.Context, accountID int64) (core.Summary, error) {
	daily, err := s.store.DailyTotals(ctx, accountID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("daily totals: %w", err)
	}
	monthly, err := s.store.MonthlyTotals(ctx, accountID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("monthly totals: %w", err)
	}
	yearly, err := s.store.YearlyTotals(ctx, accountID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("yearly totals: %w", err)
	}

	return core.Summary{
		Daily:   daily,
		Monthly: monthly,
		Yearly:  yearly,
	}, nil
}
