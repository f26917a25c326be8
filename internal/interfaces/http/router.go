// Package http assembles the gin engine and server of the molmatch API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molmatch/internal/interfaces/http/handlers"
	"github.com/turtacn/molmatch/internal/interfaces/http/middleware"
)

type RouterConfig struct {
	// Handlers
	MatchHandler    *handlers.MatchHandler
	MoleculeHandler *handlers.MoleculeHandler
	HealthHandler   *handlers.HealthHandler

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
	MaxBodySize      int64
	Mode             string
	// APITokens guards /api/v1 with bearer authentication when non-empty.
	APITokens []string
	// RateLimiter caps /api/v1 requests per client when set.
	RateLimiter middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = prometheus.NewNoopMetrics()
	}

	r := gin.New()

	// --- Global middleware (applied to every request) ---
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.BodyLimit(cfg.MaxBodySize))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.Register(r)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1", middleware.BearerAuth(cfg.Logger, middleware.AuthConfig{Tokens: cfg.APITokens}))
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter, cfg.Logger))
	}
	if cfg.MatchHandler != nil {
		cfg.MatchHandler.Register(api)
	}
	if cfg.MoleculeHandler != nil {
		cfg.MoleculeHandler.Register(api)
	}

	return r
}

//Personal.AI order the ending
