package store

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	// DefaultRetryAttempts is the default number of tries per operation.
	DefaultRetryAttempts = 3

	// retryBaseDelay is the delay before the first retry. Each subsequent
	// retry doubles it.
	retryBaseDelay = 50 * time.Millisecond

	// retryJitterFactor is the ±percentage of jitter applied to each delay.
	retryJitterFactor = 0.2
)

// retrying decorates a Store with bounded retry for transient I/O failures.
// ErrNotFound is a definitive answer, not a failure, and is never retried.
type retrying struct {
	inner    Store
	attempts int
}

// WithRetry wraps a Store so each operation is attempted up to attempts
// times with exponential backoff before the error is surfaced.
func WithRetry(inner Store, attempts int) Store {
	if attempts < 1 {
		attempts = DefaultRetryAttempts
	}
	return &retrying{inner: inner, attempts: attempts}
}

// retryDelay calculates the backoff delay for a retry with jitter applied.
// attempt is 0-indexed (delay before the first retry has attempt = 0).
func retryDelay(attempt int) time.Duration {
	base := retryBaseDelay << uint(attempt)

	jitterRange := float64(base) * retryJitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

func (r *retrying) do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = op()
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return err
}

func (r *retrying) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.do(ctx, func() error {
		var opErr error
		value, opErr = r.inner.Get(ctx, key)
		return opErr
	})
	return value, err
}

func (r *retrying) Set(ctx context.Context, key, value string) error {
	return r.do(ctx, func() error {
		return r.inner.Set(ctx, key, value)
	})
}

func (r *retrying) Delete(ctx context.Context, key string) error {
	return r.do(ctx, func() error {
		return r.inner.Delete(ctx, key)
	})
}

func (r *retrying) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

func (r *retrying) Close() error {
	return r.inner.Close()
}
