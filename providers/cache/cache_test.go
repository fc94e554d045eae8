package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "key1", []byte("value1"), time.Minute)

	data, found := c.Get(ctx, "key1")
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), data)
}

func TestMemoryCache_GetMissing(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()

	data, found := c.Get(context.Background(), "missing")
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "key1", []byte("value1"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get(ctx, "key1")
	assert.False(t, found)
}

func TestMemoryCache_NilValueIgnored(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "key1", nil, time.Minute)

	_, found := c.Get(ctx, "key1")
	assert.False(t, found)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "key1", []byte("value1"), time.Minute)
	c.Set(ctx, "key2", []byte("value2"), time.Minute)

	c.Delete(ctx, "key1")
	_, found := c.Get(ctx, "key1")
	assert.False(t, found)

	c.Clear(ctx)
	_, found = c.Get(ctx, "key2")
	assert.False(t, found)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	server := miniredis.RunT(t)

	c, err := NewRedisCache(server.Addr(), "", 0)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	c.Set(ctx, "key1", []byte("value1"), time.Minute)

	data, found := c.Get(ctx, "key1")
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), data)
}

func TestRedisCache_Expiry(t *testing.T) {
	server := miniredis.RunT(t)

	c, err := NewRedisCache(server.Addr(), "", 0)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	c.Set(ctx, "key1", []byte("value1"), time.Minute)
	server.FastForward(2 * time.Minute)

	_, found := c.Get(ctx, "key1")
	assert.False(t, found)
}

func TestRedisCache_DeleteAndClear(t *testing.T) {
	server := miniredis.RunT(t)

	c, err := NewRedisCache(server.Addr(), "", 0)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	c.Set(ctx, "key1", []byte("value1"), time.Minute)
	c.Delete(ctx, "key1")
	_, found := c.Get(ctx, "key1")
	assert.False(t, found)

	c.Set(ctx, "key2", []byte("value2"), time.Minute)
	c.Clear(ctx)
	_, found = c.Get(ctx, "key2")
	assert.False(t, found)
}

func TestRedisCache_ConnectionFailure(t *testing.T) {
	_, err := NewRedisCache("localhost:1", "", 0)
	assert.Error(t, err)
}
