package api

import (
	"context"
	"time"

	"github.com/campusrec/campusrec/internal/apierr"
)

// RetryPolicy controls how idempotent requests are retried when the
// backend is unreachable. Explicit rejections (4xx) are never retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff returns the delay before the given attempt (1-based).
	Backoff func(attempt int) time.Duration
}

// LinearBackoff returns a backoff that grows by base per attempt.
func LinearBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// DefaultRetryPolicy retries twice more after the first failure with
// linear backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(500 * time.Millisecond),
	}
}

// NoRetry performs a single attempt.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// do runs fn under the policy, sleeping between attempts and honoring
// context cancellation. Only unreachable-class failures are retried.
func (p RetryPolicy) do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !apierr.Degraded(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		delay := time.Duration(0)
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
