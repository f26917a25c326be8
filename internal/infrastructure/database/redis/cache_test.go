package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/internal/testutil"
)

type cachedResult struct {
	Count    int     `json:"count"`
	Mappings [][]int `json:"mappings"`
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewRedisCache(c, nil)
	ctx := context.Background()

	in := cachedResult{Count: 2, Mappings: [][]int{{0, 1}, {1, 0}}}
	require.NoError(t, cache.Set(ctx, "match:abc", in, time.Minute))
	assert.True(t, mr.Exists("molmatch:match:abc"))

	var out cachedResult
	require.NoError(t, cache.Get(ctx, "match:abc", &out))
	assert.Equal(t, in, out)

	ttl := mr.TTL("molmatch:match:abc")
	assert.True(t, ttl >= 54*time.Second && ttl <= 66*time.Second, "ttl %v outside jitter window", ttl)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newTestClient(t)
	cache := NewRedisCache(c, nil, WithPrefix("t:"))
	var out cachedResult
	err := cache.Get(context.Background(), "absent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewRedisCache(c, nil)
	require.NoError(t, mr.Set("molmatch:bad", "{not json"))
	var out cachedResult
	err := cache.Get(context.Background(), "bad", &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestCache_DeleteExists(t *testing.T) {
	c, _ := newTestClient(t)
	cache := NewRedisCache(c, nil)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", 1, 0))
	ok, err := cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cache.Delete(ctx, "a"))
	ok, err = cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, cache.Delete(ctx))
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newTestClient(t)
	cache := NewRedisCache(c, nil)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return cachedResult{Count: 5}, nil
	}

	var out cachedResult
	hit, err := cache.GetOrSet(ctx, "k", &out, time.Minute, loader)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 5, out.Count)

	var again cachedResult
	hit, err = cache.GetOrSet(ctx, "k", &again, time.Minute, loader)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 5, again.Count)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSet_LoaderError(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewRedisCache(c, nil)
	boom := fmt.Errorf("boom")

	var out cachedResult
	_, err := cache.GetOrSet(context.Background(), "k", &out, time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("molmatch:k"))
}

func TestCache_GetOrSet_NilCachesMarker(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewRedisCache(c, nil, WithNullCacheTTL(5*time.Second))
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}
	var out cachedResult
	_, err := cache.GetOrSet(ctx, "none", &out, time.Minute, loader)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.True(t, mr.Exists("molmatch:none"))

	// the marker reads as a miss, not a decode failure
	assert.ErrorIs(t, cache.Get(ctx, "none", &out), ErrCacheMiss)
}

func TestCache_GetOrSet_NullMarkerWriteFails(t *testing.T) {
	c, mr := newTestClient(t)
	log := testutil.NewRecordingLogger()
	cache := NewRedisCache(c, log)
	t.Cleanup(func() { mr.SetError("") })

	var out cachedResult
	_, err := cache.GetOrSet(context.Background(), "none", &out, time.Minute, func(context.Context) (interface{}, error) {
		mr.SetError("ERR write refused")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists("molmatch:none"))
	assert.True(t, log.HasMessage("warn", "Failed to cache null marker"))
	key, ok := log.FieldValue("Failed to cache null marker", "key")
	require.True(t, ok)
	assert.Equal(t, "none", key)
}

func TestCache_GetOrSet_Singleflight(t *testing.T) {
	c, _ := newTestClient(t)
	cache := NewRedisCache(c, nil)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return cachedResult{Count: 9}, nil
	}

	var wg sync.WaitGroup
	results := make([]cachedResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := cache.GetOrSet(ctx, "shared", &results[i], time.Minute, loader)
			assert.NoError(t, err)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
	for _, r := range results {
		assert.Equal(t, 9, r.Count)
	}
}

func TestCache_DeleteByPrefix(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewRedisCache(c, nil)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("screen:mol-1:%d", i), i, time.Minute))
	}
	require.NoError(t, cache.Set(ctx, "screen:mol-2:0", 0, time.Minute))

	n, err := cache.DeleteByPrefix(ctx, "screen:mol-1:")
	require.NoError(t, err)
	assert.Equal(t, int64(250), n)
	assert.True(t, mr.Exists("molmatch:screen:mol-2:0"))
	assert.Len(t, mr.Keys(), 1)
}

func TestCache_Ping(t *testing.T) {
	c, _ := newTestClient(t)
	cache := NewRedisCache(c, nil)
	assert.NoError(t, cache.Ping(context.Background()))
}

//Personal.AI order the ending
