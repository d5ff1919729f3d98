package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, fastRetry(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	cause := errors.New("still down")
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return cause
	}, fastRetry(2))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_PermanentStopsImmediately(t *testing.T) {
	cause := errors.New("bad request")
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return Permanent(cause)
	}, fastRetry(5))

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastRetry(3)
	opts.InitialDelay = time.Second
	opts.MaxDelay = time.Second

	err := WithRetry(ctx, func() error { return errors.New("fail") }, opts)
	assert.ErrorIs(t, err, context.Canceled)
}
