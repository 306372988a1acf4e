package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestStateStore_PutTake_OneTimeUse(t *testing.T) {
	_, client := newTestClient(t)
	store := NewStateStore(client)
	ctx := context.Background()

	token, err := store.Put(ctx, "ledger-entry-1", time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 32)

	val, found, err := store.Take(ctx, token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ledger-entry-1", val)

	_, found, err = store.Take(ctx, token)
	require.NoError(t, err)
	assert.False(t, found, "second take must miss")
}

func TestStateStore_Expiry(t *testing.T) {
	s, client := newTestClient(t)
	store := NewStateStore(client)
	ctx := context.Background()

	token, err := store.Put(ctx, "v", time.Minute)
	require.NoError(t, err)

	s.FastForward(61 * time.Second)

	_, found, err := store.Take(ctx, token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStateStore_TokensAreDistinct(t *testing.T) {
	_, client := newTestClient(t)
	store := NewStateStore(client)
	ctx := context.Background()

	a, err := store.Put(ctx, "a", time.Minute)
	require.NoError(t, err)
	b, err := store.Put(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStateStore_EmptyToken(t *testing.T) {
	_, client := newTestClient(t)
	store := NewStateStore(client)

	_, found, err := store.Take(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestIdempotencyCache_SetAndGet(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := "deposit:acc-1:key-1"
	value := []byte(`{"ledger_entry_id":"abc","redirect_url":"https://pay.example"}`)

	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, cache.Set(ctx, key, value, 24*time.Hour))

	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestIdempotencyCache_FirstWriteWins(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("first"), time.Hour))
	require.NoError(t, cache.Set(ctx, "k", []byte("second"), time.Hour))

	result, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), result)
}

func TestIdempotencyCache_TTLExpiry(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}
