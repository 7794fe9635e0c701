package cache_test

import (
	"context"
	"errors"
	"slotwise/infras/otel/mocks"
	"slotwise/shared/cache"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offering struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "catalog:offerings:T1", []offering{{ID: "o1", Name: "Standard"}}, 60))

	var got []offering
	require.NoError(t, c.Get(ctx, "catalog:offerings:T1", &got))
	assert.Equal(t, []offering{{ID: "o1", Name: "Standard"}}, got)

	require.NoError(t, c.Save(ctx, "plain", "value", 60))

	var plain string
	require.NoError(t, c.Get(ctx, "plain", &plain))
	assert.Equal(t, "value", plain)

	server.FastForward(61 * time.Second)

	err := c.Get(ctx, "catalog:offerings:T1", &got)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_GetUndecodable(t *testing.T) {
	c, server := newCache(t)

	require.NoError(t, server.Set("broken", "{"))

	var got []offering
	assert.Error(t, c.Get(context.Background(), "broken", &got))
}

func TestRedisCache_Clear(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	for _, key := range []string{"catalog:items:T1:o1", "catalog:items:T1:o2", "catalog:items:T2:o1"} {
		require.NoError(t, c.Save(ctx, key, 1, 60))
	}

	require.NoError(t, c.Clear(ctx, "catalog:items:T1*"))

	assert.False(t, server.Exists("catalog:items:T1:o1"))
	assert.False(t, server.Exists("catalog:items:T1:o2"))
	assert.True(t, server.Exists("catalog:items:T2:o1"))

	require.NoError(t, c.Clear(ctx, "nothing:matches*"))
}

func TestRedisCache_Incr(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := c.Incr(ctx, "limiter:1.1.1.1", 60)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	server.FastForward(30 * time.Second)

	_, err := c.Incr(ctx, "limiter:1.1.1.1", 60)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, server.TTL("limiter:1.1.1.1"))

	server.FastForward(31 * time.Second)

	count, err := c.Incr(ctx, "limiter:1.1.1.1", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
