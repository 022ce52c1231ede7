package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryOnce_SecondAttemptSucceeds(t *testing.T) {
	calls := 0
	v, err := RetryOnce(context.Background(), time.Millisecond, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestRetryOnce_GivesUpAfterTwoAttempts(t *testing.T) {
	calls := 0
	_, err := RetryOnce(context.Background(), time.Millisecond, func() (int, error) {
		calls++
		return 0, errors.New("down")
	})

	assert.EqualError(t, err, "down")
	assert.Equal(t, 2, calls)
}

func TestRetryOnce_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryOnce(ctx, time.Hour, func() (int, error) {
		calls++
		return 0, errors.New("first")
	})

	assert.EqualError(t, err, "first")
	assert.Equal(t, 1, calls)
}
