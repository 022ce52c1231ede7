package util

import (
	"context"
	"time"
)

// RetryOnce runs fn and, if it fails, runs it exactly once more after backoff.
// The second error is returned. Context cancellation during the backoff
// returns the first error.
func RetryOnce[T any](ctx context.Context, backoff time.Duration, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err == nil {
		return v, nil
	}

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return v, err
	case <-timer.C:
	}

	return fn()
}
