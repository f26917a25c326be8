package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
)

// RateLimit is the state of one key after a request was counted.
type RateLimit struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// WindowLimiter counts requests per key in fixed windows shared by every
// API replica.
type WindowLimiter struct {
	client *Client
	limit  int
	window time.Duration
	logger logging.Logger
}

// NewWindowLimiter allows limit requests per key in each window.
func NewWindowLimiter(client *Client, limit int, window time.Duration, log logging.Logger) *WindowLimiter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &WindowLimiter{client: client, limit: limit, window: window, logger: log}
}

// returns {count, pttl}; the first hit of a window starts its expiry
var windowIncrScript = redis.NewScript(`
	local n = redis.call("INCR", KEYS[1])
	if n == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	return {n, redis.call("PTTL", KEYS[1])}
`)

// Allow counts one request for key.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (RateLimit, error) {
	res, err := windowIncrScript.Run(ctx, l.client.Underlying(),
		[]string{"molmatch:ratelimit:" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return RateLimit{Allowed: true, Limit: l.limit, Remaining: l.limit},
			errors.Wrap(err, errors.ErrCodeCacheError, "failed to count request")
	}
	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimit{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

//Personal.AI order the ending
