package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Account is a registered identity owning zero or more expenses.
	// Accounts are created at registration and never mutated afterwards.
	Account struct {
		ID           int64
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Expense is one dated monetary entry belonging to exactly one account.
	// Expenses are inserted and deleted, never updated in place.
	Expense struct {
		ID          int64
		AccountID   int64
		Description string
		Amount      Money
		Date        Date
	}

	// Session is a login token bound to an account with an expiry.
	Session struct {
		ID        string
		Token     string
		AccountID int64
		CreatedAt time.Time
		ExpiresAt time.Time
	}
)

var (
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyUsername      = errors.New("empty username")
	ErrEmptyPassword      = errors.New("empty password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionExpired     = errors.New("session expired or unknown")
)

const maxDescriptionLength = 200

// Validate checks the fields a caller controls. The amount carries no sign
// or range constraint: negative and zero amounts are accepted as valid.
func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}
