package lock

import (
	"context"
	"errors"
	"testing"
)

func TestRunLock_LocalAcquireRelease(t *testing.T) {
	l := NewRunLock(nil, "", 0)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := l.Acquire(ctx); !errors.Is(err, ErrHeld) {
		t.Fatalf("second acquire = %v, want ErrHeld", err)
	}
	l.Release(ctx)
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	l.Release(ctx)
}

func TestRunLock_ReleaseWithoutAcquire(t *testing.T) {
	l := NewRunLock(nil, "", 0)
	// Releasing an unheld local lock is a no-op, not a panic.
	l.Release(context.Background())
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
}
