package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/testutil"
)

// These tests run against real backends and are skipped unless the
// corresponding connection URL is set.

func TestRedisStoreIntegration(t *testing.T) {
	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")
	ctx := context.Background()

	s, err := NewRedis(ctx, redisURL)
	require.NoError(t, err)
	defer s.Close()
	defer s.Delete(ctx, "k1")

	storeContract(t, s)
}

func TestPostgresStoreIntegration(t *testing.T) {
	databaseURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	s, err := NewPostgres(ctx, databaseURL)
	require.NoError(t, err)
	defer s.Close()
	defer s.Delete(ctx, "k1")

	storeContract(t, s)
}
