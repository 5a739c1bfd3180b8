// Package worker runs the background loops of the service.
package worker

import (
	"context"
	"time"

	"spend/internal/log"
)

// SessionStore deletes stale sessions and reports how many went away.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// SessionSweeper periodically removes expired sessions so the sessions
// table does not grow without bound. Expired sessions are already rejected
// at authentication time; the sweeper only reclaims the rows.
type SessionSweeper struct {
	store    SessionStore
	interval time.Duration
	logger   *log.Logger
}

func NewSessionSweeper(store SessionStore, interval time.Duration, logger *log.Logger) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. It always returns ctx.Err().
func (s *SessionSweeper) Run(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Session sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	deleted, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sweep expired sessions",
			log.FieldOperation, log.OpSweep,
			log.FieldError, err)
		return
	}
	if deleted > 0 {
		s.logger.InfoContext(ctx, "Swept expired sessions",
			log.FieldOperation, log.OpSweep,
			"deleted", deleted)
	}
}
