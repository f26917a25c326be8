package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/interfaces/http/handlers"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
)

// AuthConfig configures BearerAuth.
type AuthConfig struct {
	// Tokens lists the accepted bearer tokens.  An empty list disables
	// authentication.
	Tokens    []string
	SkipPaths []string
}

// BearerAuth rejects requests whose Authorization header does not carry one
// of the configured tokens.
func BearerAuth(logger logging.Logger, cfg AuthConfig) gin.HandlerFunc {
	if len(cfg.Tokens) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	tokens := make([][]byte, len(cfg.Tokens))
	for i, t := range cfg.Tokens {
		tokens[i] = []byte(t)
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		token, reason := bearerToken(c.GetHeader("Authorization"))
		if reason == "" && !knownToken(tokens, []byte(token)) {
			reason = "unknown token"
		}
		if reason != "" {
			logger.Warn("Authentication failed",
				logging.String("path", c.Request.URL.Path),
				logging.String("ip", c.ClientIP()),
				logging.String("reason", reason))
			resp := common.NewErrorResponse(errors.ErrCodeUnauthorized.String(),
				errors.DefaultMessageForCode(errors.ErrCodeUnauthorized), reason)
			resp.RequestID = c.GetString(handlers.RequestIDKey)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", "invalid authorization format"
	}
	return token, ""
}

// knownToken compares against every token so timing does not reveal which
// one matched.
func knownToken(tokens [][]byte, candidate []byte) bool {
	found := 0
	for _, t := range tokens {
		found |= subtle.ConstantTimeCompare(t, candidate)
	}
	return found == 1
}

//Personal.AI order the ending
