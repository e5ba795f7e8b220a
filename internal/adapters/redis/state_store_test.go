package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/ports"
	"github.com/ibmec/pict-api/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestStateStore_SaveAndConsume(t *testing.T) {
	client := setupTestRedis(t)
	store := NewStateStoreWithPrefix(client, "test:login_state:")
	ctx := context.Background()

	st := domainauth.LoginState{State: "state-1", Nonce: "nonce-1", ExpiresAt: time.Now().Add(10 * time.Minute)}
	require.NoError(t, store.Save(ctx, st))

	ttl, err := client.TTL(ctx, "test:login_state:state-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 9*time.Minute)

	got, err := store.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, "nonce-1", got.Nonce)
	assert.WithinDuration(t, st.ExpiresAt, got.ExpiresAt, time.Second)

	// Second consume must fail: states are single use.
	_, err = store.Consume(ctx, "state-1")
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}

func TestStateStore_ConsumeUnknown(t *testing.T) {
	client := setupTestRedis(t)
	store := NewStateStoreWithPrefix(client, "test:login_state:")

	_, err := store.Consume(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrStateNotFound)

	_, err = store.Consume(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}

func TestStateStore_SaveRejectsInvalid(t *testing.T) {
	store := NewStateStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	ctx := context.Background()

	err := store.Save(ctx, domainauth.LoginState{ExpiresAt: time.Now().Add(time.Minute)})
	require.Error(t, err)

	err = store.Save(ctx, domainauth.LoginState{State: "s", ExpiresAt: time.Now().Add(-time.Minute)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestStateStore_ConsumeExpiredPayload(t *testing.T) {
	client := setupTestRedis(t)
	store := NewStateStoreWithPrefix(client, "test:login_state:")
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }
	require.NoError(t, store.Save(ctx, domainauth.LoginState{State: "late", ExpiresAt: base.Add(time.Minute)}))

	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err := store.Consume(ctx, "late")
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}
