package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"immopilot_backend/platform/logger"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), logger.Discard(), "op", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryReturnsLastError(t *testing.T) {
	err := WithRetry(context.Background(), logger.Discard(), "migrations", 2, time.Millisecond, func() error {
		return errors.New("connection refused")
	})
	if err == nil || !strings.Contains(err.Error(), "migrations: connection refused") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, logger.Discard(), "op", 5, time.Millisecond, func() error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("expected cancellation before any call, got err=%v calls=%d", err, calls)
	}
}

func TestWithRetryRejectsZeroAttempts(t *testing.T) {
	if err := WithRetry(context.Background(), logger.Discard(), "op", 0, time.Millisecond, func() error { return nil }); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}
