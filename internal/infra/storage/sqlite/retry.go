package sqlite

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mattn/go-sqlite3"
)

// RetryConfig defines how writes retry when another process holds the
// database lock.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig retries briefly on top of the driver's busy timeout.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialDelay:    50 * time.Millisecond,
	MaxDelay:        time.Second,
	BackoffMultiple: 2.0,
}

// isBusy reports whether err is a lock conflict worth retrying.
func isBusy(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
}

// withRetry runs op, retrying lock conflicts with exponential backoff.
// Any other error is returned immediately.
func withRetry(ctx context.Context, config RetryConfig, op func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		lastErr = err
		if !isBusy(err) {
			return err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(calculateBackoff(attempt, config)):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffMultiple, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
