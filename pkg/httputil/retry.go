package httputil

import (
	"context"
	"errors"
	"time"
)

// Backoff spaces retry attempts. The delay starts at Initial, doubles after
// every failed attempt and never exceeds Max when Max is set.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff is three attempts starting at one second.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 10 * time.Second}

// RetryableError marks a transient failure. After is the wait the server
// asked for with Retry-After, or zero.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails with an error that is not a
// [RetryableError], or the attempts run out. attempt counts from 1. A
// server-requested wait longer than the current delay replaces it.
func (b Backoff) Retry(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial

	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || attempt >= attempts {
			return err
		}

		wait := max(delay, re.After)
		if b.Max > 0 {
			wait = min(wait, b.Max)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// Retry runs fn up to attempts times starting at delay. See [Backoff.Retry].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Initial: delay}.Retry(ctx, func(int) error { return fn() })
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
