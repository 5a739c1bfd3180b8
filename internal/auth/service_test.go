package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spend/internal/core"
	"spend/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "auth_test.db"))
	if err != nil {
		t.Fatalf("create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewService(repo, time.Hour, bcrypt.MinCost), repo
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "empty username", username: "", password: "secret", wantErr: core.ErrEmptyUsername},
		{name: "whitespace username", username: "   ", password: "secret", wantErr: core.ErrEmptyUsername},
		{name: "empty password", username: "alice", password: "", wantErr: core.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := svc.Register(ctx, "alice", "different")
	if !errors.Is(err, core.ErrUsernameTaken) {
		t.Errorf("second Register() error = %v, want %v", err, core.ErrUsernameTaken)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	account, err := repo.AccountByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("AccountByUsername() error = %v", err)
	}
	if account.PasswordHash == "secret" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}

	accountID, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if accountID != account.ID {
		t.Errorf("Authenticate() accountID = %d, want %d", accountID, account.ID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "wrong"},
		{name: "unknown username", username: "mallory", password: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, core.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want %v", err, core.ErrInvalidCredentials)
			}
		})
	}
}

func TestLoginTokensAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	first, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	second, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	if first == second {
		t.Error("two logins produced the same token")
	}

	// Both sessions stay valid independently.
	for _, token := range []string{first, second} {
		if _, err := svc.Authenticate(ctx, token); err != nil {
			t.Errorf("Authenticate(%q) error = %v", token, err)
		}
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "unknown token", token: "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.token)
			if !errors.Is(err, core.ErrSessionExpired) {
				t.Errorf("Authenticate() error = %v, want %v", err, core.ErrSessionExpired)
			}
		})
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "auth_test.db"))
	if err != nil {
		t.Fatalf("create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	// Negative TTL so the session is already stale when issued.
	svc := NewService(repo, -time.Minute, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, core.ErrSessionExpired) {
		t.Errorf("Authenticate() error = %v, want %v", err, core.ErrSessionExpired)
	}
}

func TestLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, core.ErrSessionExpired) {
		t.Errorf("Authenticate() after logout error = %v, want %v", err, core.ErrSessionExpired)
	}

	// Logging out again, or with an empty token, is a no-op.
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("repeat Logout() error = %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout(\"\") error = %v", err)
	}
}
