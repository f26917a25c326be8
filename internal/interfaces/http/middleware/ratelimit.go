package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/interfaces/http/handlers"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
)

// RateLimiter counts one request for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (redis.RateLimit, error)
}

// RateLimit answers 429 once a client IP exceeds its window.  Limiter
// failures let the request through.
func RateLimit(limiter RateLimiter, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		rl, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable", logging.Err(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(rl.ResetAt.Unix(), 10))
		if rl.Allowed {
			c.Next()
			return
		}

		retry := int(time.Until(rl.ResetAt).Seconds())
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		logger.Debug("Rate limit exceeded", logging.String("client", key))

		resp := common.NewErrorResponse(errors.ErrCodeRateLimited.String(),
			errors.DefaultMessageForCode(errors.ErrCodeRateLimited), "")
		resp.RequestID = c.GetString(handlers.RequestIDKey)
		c.AbortWithStatusJSON(errors.HTTPStatusForCode(errors.ErrCodeRateLimited), resp)
	}
}

//Personal.AI order the ending
