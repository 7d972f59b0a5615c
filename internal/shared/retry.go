package shared

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry tuning for SQLite write conflicts.
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 50 * time.Millisecond
)

// RetryOnConflict runs op until it succeeds, fails with an error that is
// not a SQLite conflict, or the attempts run out. The delay doubles between
// attempts: 50ms, 100ms.
func RetryOnConflict(ctx context.Context, what string, op func(context.Context) error) error {
	return Retry(ctx, what, DefaultRetryAttempts, DefaultRetryDelay, IsSQLiteConflictError, op)
}

// Retry runs op up to attempts times with exponential backoff starting at
// baseDelay, retrying only errors for which retryable returns true.
func Retry(ctx context.Context, what string, attempts int, baseDelay time.Duration, retryable func(error) bool, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) || i == attempts-1 {
			break
		}

		delay := baseDelay * time.Duration(1<<i)
		slog.Debug("retrying after conflict", "op", what, "attempt", i+1, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-timer.C:
		}
	}

	if retryable(err) {
		return fmt.Errorf("%s failed after %d attempts: %w", what, attempts, err)
	}
	return err
}
