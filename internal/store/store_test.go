package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behavior every driver must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k1", `{"a":1}`))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	// Overwrite
	require.NoError(t, s.Set(ctx, "k1", `{"a":2}`))
	got, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, got)

	require.NoError(t, s.Delete(ctx, "k1"))
	_, err = s.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error
	require.NoError(t, s.Delete(ctx, "k1"))

	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	storeContract(t, s)
}

func TestBadgerStoreInMemory(t *testing.T) {
	s, err := NewBadgerInMemory()
	require.NoError(t, err)
	defer s.Close()

	storeContract(t, s)
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewBadger(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "durable", "value"))
	require.NoError(t, s.Close())

	// Reopen and expect the value to have survived
	s, err = NewBadger(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "cassandra"})
	assert.Error(t, err)
}

func TestOpenMemoryDriver(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: DriverMemory})
	require.NoError(t, err)
	defer s.Close()

	storeContract(t, s)
}
