package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/pkg/errors"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewClientFromUniversal(rdb, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewClient_Standalone(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(&RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer c.Close()
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(&RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestClient_Commands(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute).Err())
	v, err := c.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	ok, err := c.SetNX(ctx, "k", "other", time.Minute).Result()
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := c.Exists(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ttl, err := c.PTTL(ctx, "k").Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0)

	n, err = c.Del(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists("k"))
}

func TestClient_Closed(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Close())
	// second close is a no-op
	assert.NoError(t, c.Close())

	assert.ErrorIs(t, c.Ping(ctx), ErrClientClosed)
	assert.ErrorIs(t, c.Get(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, c.SetNX(ctx, "k", "v", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Del(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Exists(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.PTTL(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Scan(ctx, 0, "*", 10).Err(), ErrClientClosed)
}

//Personal.AI order the ending
