package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flaky fails the first failures calls of each operation, then delegates to
// an in-memory store.
type flaky struct {
	*Memory
	failures int
	calls    int
}

var errTransient = errors.New("connection reset")

func (f *flaky) Set(ctx context.Context, key, value string) error {
	f.calls++
	if f.calls <= f.failures {
		return errTransient
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *flaky) Get(ctx context.Context, key string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errTransient
	}
	return f.Memory.Get(ctx, key)
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	inner := &flaky{Memory: NewMemory(), failures: 2}
	s := WithRetry(inner, 3)

	err := s.Set(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flaky{Memory: NewMemory(), failures: 10}
	s := WithRetry(inner, 3)

	err := s.Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryDoesNotRetryNotFound(t *testing.T) {
	inner := &flaky{Memory: NewMemory()}
	s := WithRetry(inner, 3)

	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	inner := &flaky{Memory: NewMemory(), failures: 10}
	s := WithRetry(inner, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Set(ctx, "k", "v")
	assert.ErrorIs(t, err, context.Canceled)
}
