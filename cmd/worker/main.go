// Screening worker entry point for molmatch: consumes asynchronous screening
// jobs from Kafka and publishes their outcome.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/molmatch/internal/application/matching"
	"github.com/turtacn/molmatch/internal/bootstrap"
	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/molmatch/internal/interfaces/http"
	"github.com/turtacn/molmatch/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const defaultHealthPort = 8081

func main() {
	var (
		configPath string
		workers    int
	)
	cmd := &cobra.Command{
		Use:           "worker",
		Short:         "Run asynchronous screening jobs",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, workers)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (environment only when empty)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of consumers (overrides worker.concurrency)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, workers int) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if workers > 0 {
		cfg.Worker.Concurrency = workers
	}
	if cfg.Worker.Concurrency <= 0 {
		cfg.Worker.Concurrency = 1
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

	if err := ensureTopics(ctx, cfg.Kafka, logger); err != nil {
		logger.Warn("Topic provisioning failed, relying on broker auto-create", logging.Err(err))
	}

	matcher, err := infra.MatchingService(cfg.Matching)
	if err != nil {
		return err
	}
	handler := matching.NewScreenJobHandler(matcher, infra.Locks, infra.Producer, matching.JobHandlerConfig{
		ResultTopic:  cfg.Kafka.ResultTopic,
		JobTimeout:   cfg.Worker.JobTimeout,
		ForceArchive: cfg.Worker.ArchiveReports,
	}, logger.Named("jobs"))

	consumers := make([]*kafka.Consumer, 0, cfg.Worker.Concurrency)
	defer func() { closeConsumers(consumers, logger) }()
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		c, err := kafka.NewConsumer(bootstrap.ConsumerConfig(cfg.Kafka),
			logger.Named(fmt.Sprintf("consumer-%d", i)), metrics, infra.Producer)
		if err != nil {
			return err
		}
		consumers = append(consumers, c)
		c.Subscribe(cfg.Kafka.RequestTopic, handler.Handle)
		if err := c.Start(ctx); err != nil {
			return err
		}
	}

	port := cfg.Metrics.Port
	if port == 0 {
		port = defaultHealthPort
	}
	healthCfg := cfg.Server
	healthCfg.Port = port
	healthSrv := httpserver.NewServer(healthCfg, httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, metrics, infra.HealthCheckers()...),
		Logger:           logger.Named("http"),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
		Mode:             cfg.Server.Mode,
	}), logger.Named("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- healthSrv.Start() }()

	logger.Info("molmatch worker started",
		logging.String("version", Version),
		logging.Int("consumers", len(consumers)),
		logging.String("topic", cfg.Kafka.RequestTopic))

	select {
	case err = <-errCh:
	case <-ctx.Done():
	}

	logger.Info("Shutting down worker, waiting for in-flight jobs")
	shutdownCtx, cancel := bootstrap.ShutdownContext(cfg.Worker.ShutdownTimeout)
	defer cancel()
	if stopErr := healthSrv.Stop(shutdownCtx); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger.Named("topics"))
	if err != nil {
		return err
	}
	defer func() { _ = tm.Close() }()
	return tm.EnsureTopics(ctx, kafka.ScreeningTopics(cfg.RequestTopic, cfg.ResultTopic, cfg.DeadLetterTopic))
}

// closeConsumers stops every consumer in parallel; each waits for its
// in-flight message.
func closeConsumers(consumers []*kafka.Consumer, logger logging.Logger) {
	var g errgroup.Group
	for _, c := range consumers {
		c := c
		g.Go(c.Close)
	}
	if err := g.Wait(); err != nil {
		logger.Warn("Consumer close failed", logging.Err(err))
	}
}

//Personal.AI order the ending
