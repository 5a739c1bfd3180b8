package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"spend/internal/log"
)

type countingStore struct {
	calls atomic.Int64
	err   error
}

func (s *countingStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

func TestSweeperRunsUntilCancelled(t *testing.T) {
	store := &countingStore{}
	sweeper := NewSessionSweeper(store, 10*time.Millisecond, log.New(log.DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for store.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("sweeper ran %d times, want at least 3", store.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSweeperKeepsRunningAfterStoreError(t *testing.T) {
	store := &countingStore{err: errors.New("database locked")}
	sweeper := NewSessionSweeper(store, 10*time.Millisecond, log.New(log.DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	deadline := time.After(2 * time.Second)
	for store.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("sweeper gave up after %d calls", store.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
