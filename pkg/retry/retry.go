// Package retry provides a bounded, linear-backoff retry loop as a pure
// function over an operation and an error classifier.
package retry

import (
	"context"
	"time"
)

// Classifier reports whether an error is transient, i.e. worth retrying.
type Classifier func(error) bool

// Do runs op up to maxAttempts times. After the n-th failed attempt it waits
// n × backoff before trying again, but only when the classifier deems the
// error transient; terminal errors and exhausted budgets propagate
// immediately. The wait honours ctx, so callers can abort an in-flight
// confirmation without blocking.
func Do[T any](
	ctx context.Context,
	maxAttempts int,
	backoff time.Duration,
	transient Classifier,
	op func(context.Context) (T, error),
) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !transient(err) || attempt == maxAttempts {
			return zero, lastErr
		}
		timer := time.NewTimer(time.Duration(attempt) * backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
