// Package auth implements registration, login and session verification.
// Every request's account identity comes from Authenticate; nothing else
// in the system ever trusts a caller-supplied account ID.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"spend/internal/core"
	"spend/internal/log"
)

// Store is the persistence surface the auth service needs.
type Store interface {
	CreateAccount(ctx context.Context, username, passwordHash string) (core.Account, error)
	AccountByUsername(ctx context.Context, username string) (core.Account, error)
	CreateSession(ctx context.Context, s core.Session) error
	SessionAccount(ctx context.Context, token string) (int64, error)
	DeleteSession(ctx context.Context, token string) error
}

type Service struct {
	store      Store
	sessionTTL time.Duration
	bcryptCost int
}

func NewService(store Store, sessionTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		store:      store,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account with a bcrypt-hashed password. A duplicate
// username surfaces as core.ErrUsernameTaken, distinct from other
// validation failures.
func (s *Service) Register(ctx context.Context, username, password string) (core.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.Account{}, core.ErrEmptyUsername
	}
	if password == "" {
		return core.Account{}, core.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return core.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.store.CreateAccount(ctx, username, string(hash))
	if err != nil {
		return core.Account{}, err
	}

	log.FromContext(ctx).InfoContext(ctx, "Account registered",
		log.FieldAccountID, account.ID,
		log.FieldUsername, account.Username)

	return account, nil
}

// Login verifies credentials and mints a session token. Unknown usernames
// and wrong passwords produce the same core.ErrInvalidCredentials so the
// response shape never reveals which one failed.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			return "", core.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", core.ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := core.Session{
		ID:        uuid.New().String(),
		Token:     token,
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	log.FromContext(ctx).InfoContext(ctx, "Session created",
		log.FieldAccountID, account.ID,
		log.FieldUsername, account.Username)

	return token, nil
}

// Authenticate resolves a session token to the verified account ID.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, core.ErrSessionExpired
	}
	accountID, err := s.store.SessionAccount(ctx, token)
	if err != nil {
		return 0, err
	}
	return accountID, nil
}

// Logout deletes the session. Deleting an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
