package identity_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/infrastructure/identity"
)

// Necesita un Redis desechable: TEST_REDIS_ADDR=localhost:6379.
func newRedisStore(t *testing.T) *identity.RedisSessionStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	rdb, err := identity.NewRedisClient(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return identity.NewRedisSessionStore(rdb)
}

func TestRedisSessionStore_ConsumeUnaSolaVez(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	userID := uuid.NewString()
	hash := uuid.NewString()

	require.NoError(t, store.Save(ctx, hash, userID, time.Minute))

	got, err := store.Consume(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = store.Consume(ctx, hash)
	require.NoError(t, err)
	assert.Empty(t, got, "un refresh token rotado no se reutiliza")
}

func TestRedisSessionStore_RevokeUser(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	userID := uuid.NewString()
	a, b := uuid.NewString(), uuid.NewString()

	require.NoError(t, store.Save(ctx, a, userID, time.Minute))
	require.NoError(t, store.Save(ctx, b, userID, time.Minute))
	require.NoError(t, store.RevokeUser(ctx, userID))

	for _, h := range []string{a, b} {
		got, err := store.Consume(ctx, h)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}
