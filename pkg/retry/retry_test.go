package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errTerminal = errors.New("terminal")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), 3, time.Millisecond, isTransient,
		func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientUpToBound(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		failures    int
		wantCalls   int
		wantErr     error
	}{
		{"recovers on last attempt", 3, 2, 3, nil},
		{"budget exhausted", 3, 5, 3, errTransient},
		{"single attempt budget", 1, 1, 1, errTransient},
		{"non-positive budget coerced to one", 0, 1, 1, errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := Do(context.Background(), tt.maxAttempts, time.Millisecond, isTransient,
				func(context.Context) (int, error) {
					calls++
					if calls <= tt.failures {
						return 0, errTransient
					}
					return 42, nil
				})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestDo_TerminalErrorStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), 5, time.Millisecond, isTransient,
		func(context.Context) (int, error) {
			calls++
			return 0, errTerminal
		})
	require.ErrorIs(t, err, errTerminal)
	assert.Equal(t, 1, calls)
}

func TestDo_LinearBackoffBetweenAttempts(t *testing.T) {
	backoff := 20 * time.Millisecond
	start := time.Now()
	_, err := Do(context.Background(), 3, backoff, isTransient,
		func(context.Context) (int, error) {
			return 0, errTransient
		})
	elapsed := time.Since(start)
	require.ErrorIs(t, err, errTransient)
	// Two waits: 1×backoff after attempt 1, 2×backoff after attempt 2.
	assert.GreaterOrEqual(t, elapsed, 3*backoff)
}

func TestDo_CancelledContext(t *testing.T) {
	t.Run("before first attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_, err := Do(ctx, 3, time.Millisecond, isTransient,
			func(context.Context) (int, error) {
				calls++
				return 0, errTransient
			})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("during backoff wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := Do(ctx, 3, time.Hour, isTransient,
			func(context.Context) (int, error) {
				calls++
				cancel()
				return 0, errTransient
			})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
