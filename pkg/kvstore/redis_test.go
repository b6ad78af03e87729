package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: server.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return store, server
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	exerciseStore(t, store)
}

func TestRedisStoreWritesWithoutExpiry(t *testing.T) {
	store, server := newRedisStore(t)

	require.NoError(t, store.Put(context.Background(), "pravah_attendance", []byte(`[]`)))

	value, err := server.Get("pravah_attendance")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)
	assert.Zero(t, server.TTL("pravah_attendance"))
}

func TestRedisStoreReportsServerErrors(t *testing.T) {
	store, server := newRedisStore(t)
	server.SetError("ERR backend unavailable")

	_, err := store.Get(context.Background(), "pravah_users")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "redis get pravah_users")

	assert.ErrorContains(t, store.Put(context.Background(), "pravah_users", []byte(`[]`)), "redis set pravah_users")
}
