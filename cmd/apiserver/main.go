// API server entry point for molmatch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appMol "github.com/turtacn/molmatch/internal/application/molecule"
	"github.com/turtacn/molmatch/internal/application/matching"
	"github.com/turtacn/molmatch/internal/bootstrap"
	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/molmatch/internal/interfaces/http"
	"github.com/turtacn/molmatch/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "apiserver",
		Short:         "Serve the molmatch HTTP API",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (environment only when empty)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := bootstrap.WatchLogLevel(configPath, logger); err != nil {
		logger.Warn("Config watch disabled", logging.Err(err))
	}

	collector, metrics, err := bootstrap.NewMetrics(cfg.Metrics, logger)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	infra, err := bootstrap.Open(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer infra.Close()

	matcher, err := infra.MatchingService(cfg.Matching)
	if err != nil {
		return err
	}
	molecules := appMol.NewService(infra.Molecules, infra.Cache, logger.Named("registry"))
	jobs := matching.NewJobQueue(infra.Producer, cfg.Kafka.RequestTopic)

	matchHandler := handlers.NewMatchHandler(matcher, jobs, logger.Named("api"))
	if infra.Storage != nil {
		matchHandler.WithReports(infra.Storage, cfg.MinIO.PresignExpiry)
	}

	routerCfg := httpserver.RouterConfig{
		MatchHandler:     matchHandler,
		MoleculeHandler:  handlers.NewMoleculeHandler(molecules),
		HealthHandler:    handlers.NewHealthHandler(Version, metrics, infra.HealthCheckers()...),
		Logger:           logger.Named("http"),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
		MaxBodySize:      cfg.Server.MaxBodySize,
		Mode:             cfg.Server.Mode,
		APITokens:        cfg.Server.APITokens,
	}
	if rl := cfg.Server.RateLimit; rl.Requests > 0 {
		routerCfg.RateLimiter = redis.NewWindowLimiter(infra.Redis, rl.Requests, rl.Window, logger.Named("ratelimit"))
	}
	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger.Named("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("molmatch API server started",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := bootstrap.ShutdownContext(cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

//Personal.AI order the ending
