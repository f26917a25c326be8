package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/testutil"
	"github.com/turtacn/molmatch/pkg/types/common"
)

// countingLimiter allows the first n requests per key.
type countingLimiter struct {
	n    int
	seen map[string]int
	err  error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (redis.RateLimit, error) {
	if l.err != nil {
		return redis.RateLimit{}, l.err
	}
	l.seen[key]++
	remaining := l.n - l.seen[key]
	if remaining < 0 {
		remaining = 0
	}
	return redis.RateLimit{
		Allowed:   l.seen[key] <= l.n,
		Limit:     l.n,
		Remaining: remaining,
		ResetAt:   time.Now().Add(30 * time.Second),
	}, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{n: 2, seen: map[string]int{}}
	r := newEngine(RequestID(), RateLimit(limiter, testutil.NewRecordingLogger()))

	w := do(r, http.MethodGet, "/ok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", nil).Code)

	w = do(r, http.MethodGet, "/ok", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	retry := w.Header().Get("Retry-After")
	assert.Contains(t, []string{"29", "30"}, retry)

	var resp common.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "COMMON_007", resp.Error.Code)
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	r := newEngine(RateLimit(&countingLimiter{err: errors.New("redis down")}, rec))

	w := do(r, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.True(t, rec.HasMessage("warn", "Rate limiter unavailable"))
}

//Personal.AI order the ending
