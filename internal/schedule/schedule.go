package schedule

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned when work is submitted to a loop that is no longer running.
var ErrStopped = errors.New("scheduler stopped")

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel prevents any future run of the callback.
	// It returns true if at least one run was prevented.
	Cancel() bool
}

// Scheduler runs callbacks on a single logical thread.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Handle
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) Handle
	// Do runs fn on the scheduler's thread and waits for it to return.
	// It must not be called from inside a scheduled callback.
	Do(ctx context.Context, fn func()) error
}
