package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/pkg/errors"
)

func TestWindowLimiter_Allow(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewWindowLimiter(c, 2, time.Minute, nil)
	ctx := context.Background()

	first, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Limit)
	assert.Equal(t, 1, first.Remaining)
	assert.WithinDuration(t, time.Now().Add(time.Minute), first.ResetAt, 2*time.Second)

	second, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are counted separately")

	mr.FastForward(time.Minute)
	again, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, again.Allowed, "a new window starts after expiry")
	assert.True(t, mr.Exists("molmatch:ratelimit:10.0.0.1"))
}

func TestWindowLimiter_FailsOpen(t *testing.T) {
	c := NewClientFromUniversal(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}), nil)
	defer c.Close()
	l := NewWindowLimiter(c, 1, 0, nil)

	rl, err := l.Allow(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
	assert.True(t, rl.Allowed)
}

//Personal.AI order the ending
