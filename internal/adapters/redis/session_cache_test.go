package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestSessionCache_PutAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client, time.Minute)
	ctx := context.Background()
	user := domainauth.User{ID: 7, Email: "jane@example.com", Name: "Jane"}

	require.NoError(t, cache.Put(ctx, "tok-7", user))

	got, err := cache.Get(ctx, "tok-7")
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestSessionCache_KeysAreHashed(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewSessionCacheWithPrefix(client, "test:", time.Minute)
	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "secret-token", domainauth.User{ID: 1}))

	keys, err := client.Keys(ctx, "test:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.False(t, strings.Contains(keys[0], "secret-token"))
	assert.Len(t, strings.TrimPrefix(keys[0], "test:"), 64)
}

func TestSessionCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client, 30*time.Second)
	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "tok", domainauth.User{ID: 1}))

	ttl, err := client.TTL(ctx, cache.key("tok")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 25*time.Second)
	assert.LessOrEqual(t, ttl, 30*time.Second)
}

func TestSessionCache_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client, 0)
	ctx := context.Background()

	_, err := cache.Get(ctx, "nope")
	assert.Equal(t, ErrNotFound, err)
	_, err = cache.Get(ctx, "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionCache_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client, time.Minute)
	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "tok", domainauth.User{ID: 1}))

	require.NoError(t, cache.Delete(ctx, "tok"))
	_, err := cache.Get(ctx, "tok")
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, cache.Delete(ctx, ""))
}

func TestSessionCache_PutEmptyToken(t *testing.T) {
	cache := NewSessionCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), time.Minute)
	assert.Error(t, cache.Put(context.Background(), "", domainauth.User{}))
}
