// Package storage implements SQLite-backed persistence for accounts,
// sessions and expenses. Dates are stored as canonical YYYY-MM-DD text,
// which only works because the domain layer rejects anything else: the
// grouping and ordering queries below depend on that canonical form.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spend/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the underlying store is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- accounts ---

// CreateAccount inserts a new account. A duplicate username maps to
// core.ErrUsernameTaken so callers can report the conflict distinctly.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, username, passwordHash string) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Account{}, core.ErrUsernameTaken
		}
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account insert id: %w", err)
	}
	return r.AccountByID(ctx, id)
}

func (r *SQLiteRepository) AccountByID(ctx context.Context, id int64) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM accounts WHERE id = ?", id)
	return scanAccount(row)
}

func (r *SQLiteRepository) AccountByUsername(ctx context.Context, username string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM accounts WHERE username = ?", username)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (core.Account, error) {
	var a core.Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return core.Account{}, core.ErrInvalidCredentials
		}
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}

// --- sessions ---

func (r *SQLiteRepository) CreateSession(ctx context.Context, s core.Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, token, account_id, created_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.Token, s.AccountID, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SessionAccount resolves a token to its owning account ID. Unknown and
// expired tokens both yield core.ErrSessionExpired: callers learn nothing
// about which it was.
func (r *SQLiteRepository) SessionAccount(ctx context.Context, token string) (int64, error) {
	var accountID int64
	err := r.db.QueryRowContext(ctx,
		"SELECT account_id FROM sessions WHERE token = ? AND expires_at > ?",
		token, time.Now().UTC(),
	).Scan(&accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, core.ErrSessionExpired
		}
		return 0, fmt.Errorf("query session: %w", err)
	}
	return accountID, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns the
// number of rows removed.
func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired sessions rows affected: %w", err)
	}
	return n, nil
}

// --- expenses ---

// InsertExpense persists a new expense and returns its assigned ID.
// Duplicates are permitted; every insert produces a fresh row.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, accountID int64, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (account_id, description, amount_cents, date) VALUES (?, ?, ?, ?)",
		accountID, e.Description, e.Amount.Cents, e.Date.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}
	return id, nil
}

// ListExpenses returns all expenses for the account, most recent date
// first. Rows sharing a date come back in unspecified relative order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, accountID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, account_id, description, amount_cents, date FROM expenses WHERE account_id = ? ORDER BY date DESC",
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Description, &e.Amount.Cents, &dateStr); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		e.Date = d
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes the row only when both id and owner match.
// A missing row is not an error: callers cannot distinguish "deleted" from
// "was never there", which makes concurrent deletes safe.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, accountID, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND account_id = ?", id, accountID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// --- aggregation ---

const dailyBucketLimit = 30
const monthlyBucketLimit = 12

// DailyTotals sums amounts per exact date, most recent first, truncated to
// the 30 most recent distinct dates.
func (r *SQLiteRepository) DailyTotals(ctx context.Context, accountID int64) ([]core.DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, SUM(amount_cents) AS total
		FROM expenses
		WHERE account_id = ?
		GROUP BY date
		ORDER BY date DESC
		LIMIT ?`, accountID, dailyBucketLimit)
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	totals := []core.DailyTotal{}
	for rows.Next() {
		var t core.DailyTotal
		if err := rows.Scan(&t.Date, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}
	return totals, nil
}

// MonthlyTotals sums amounts per YYYY-MM month, most recent first,
// truncated to the 12 most recent distinct months. The substr grouping is
// exact because stored dates are always canonical.
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, accountID int64) ([]core.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date, 1, 7) AS month, SUM(amount_cents) AS total
		FROM expenses
		WHERE account_id = ?
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?`, accountID, monthlyBucketLimit)
	if err != nil {
		return nil, fmt.Errorf("query monthly totals: %w", err)
	}
	defer rows.Close()

	totals := []core.MonthlyTotal{}
	for rows.Next() {
		var t core.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly totals: %w", err)
	}
	return totals, nil
}

// YearlyTotals sums amounts per year, most recent first, with no
// truncation.
func (r *SQLiteRepository) YearlyTotals(ctx context.Context, accountID int64) ([]core.YearlyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date, 1, 4) AS year, SUM(amount_cents) AS total
		FROM expenses
		WHERE account_id = ?
		GROUP BY year
		ORDER BY year DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query yearly totals: %w", err)
	}
	defer rows.Close()

	totals := []core.YearlyTotal{}
	for rows.Next() {
		var t core.YearlyTotal
		if err := rows.Scan(&t.Year, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan yearly total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate yearly totals: %w", err)
	}
	return totals, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
