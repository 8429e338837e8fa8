package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a transient failure, such as a refused connection
// while a Redis or MongoDB container is still starting.
type RetryableError struct{ Err error }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry policy for backend connection checks. RetryDelay doubles after
// every failed attempt.
var (
	RetryAttempts = 3
	RetryDelay    = time.Second
)

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// with Retryable, or RetryAttempts calls have failed. It returns the context
// error if ctx ends while waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= RetryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
