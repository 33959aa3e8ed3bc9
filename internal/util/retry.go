// ABOUTME: Retry utilities for routing calls with exponential backoff
// ABOUTME: Backoff sleeps honor context cancellation so a turn never outlives its deadline
package util

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns exponential backoff with jitter
// Base delay is doubled each attempt, with random jitter up to 25%
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second || backoff <= 0 {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}

// ErrStop wraps an error that must not be retried
type ErrStop struct {
	Err error
}

func (e *ErrStop) Error() string { return e.Err.Error() }
func (e *ErrStop) Unwrap() error { return e.Err }

// Stop marks err as permanent for Retry
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &ErrStop{Err: err}
}

// Retry calls fn up to maxRetries+1 times, sleeping CalculateBackoff between
// attempts. It returns the last error, unwrapped from Stop, or ctx.Err() if
// the context ends while waiting.
func Retry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(CalculateBackoff(baseDelay, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				if lastErr != nil {
					return lastErr
				}
				return ctx.Err()
			case <-timer.C:
			}
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}

		var stop *ErrStop
		if errors.As(err, &stop) {
			return stop.Err
		}
		lastErr = err
	}
	return lastErr
}
