// Package bootstrap turns a loaded Config into the running infrastructure
// shared by the API server and the screening worker.
package bootstrap

import (
	"context"
	"time"

	"github.com/turtacn/molmatch/internal/application/matching"
	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/domain/substructure"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molmatch/internal/infrastructure/storage/minio"
	"github.com/turtacn/molmatch/internal/interfaces/http/handlers"
)

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	out := cfg.Output
	if out == "" {
		out = "stdout"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		OutputPaths:      []string{out},
		ErrorOutputPaths: []string{"stderr"},
		EnableCaller:     cfg.EnableCaller,
		EnableStacktrace: cfg.EnableStacktrace,
	})
}

// NewMetrics returns the registry and the application metrics on it.  With
// metrics disabled the collector is nil and observations are discarded.
func NewMetrics(cfg config.MetricsConfig, logger logging.Logger) (prometheus.MetricsCollector, *prometheus.AppMetrics, error) {
	if !cfg.Enabled {
		return nil, prometheus.NewNoopMetrics(), nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return collector, prometheus.NewAppMetrics(collector), nil
}

// WatchLogLevel applies log.level changes in configPath without a restart.
func WatchLogLevel(configPath string, logger logging.Logger) error {
	if configPath == "" {
		return nil
	}
	return config.Watch(configPath, logger, func(c *config.Config) {
		if err := logging.SetLevel(logger, c.Log.Level); err != nil {
			logger.Warn("Log level not changed", logging.Err(err))
			return
		}
		logger.Info("Log level changed", logging.String("level", c.Log.Level))
	})
}

// Infra holds the connected backing services.  Archive is nil when object
// storage could not be reached; screening then skips report uploads.
type Infra struct {
	DB        *postgres.Connection
	Molecules *repositories.MoleculeRepository
	Jobs      *repositories.ScreeningJobRepository
	Redis     *redis.Client
	Cache     redis.Cache
	Locks     redis.LockFactory
	Storage   *minio.Client
	Archive   minio.ReportArchive
	Producer  *kafka.Producer

	logger  logging.Logger
	metrics *prometheus.AppMetrics
	closers []func() error
}

// Open connects every backing service named in cfg.  On error the services
// already opened are closed again.
func Open(cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) (_ *Infra, err error) {
	if metrics == nil {
		metrics = prometheus.NewNoopMetrics()
	}
	in := &Infra{logger: logger, metrics: metrics}
	defer func() {
		if err != nil {
			in.Close()
		}
	}()

	if in.DB, err = postgres.NewConnection(cfg.Database, logger.Named("postgres")); err != nil {
		return nil, err
	}
	in.closers = append(in.closers, in.DB.Close)
	if cfg.Database.AutoMigrate {
		if err = in.DB.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return nil, err
		}
	}
	in.Molecules = repositories.NewMoleculeRepository(in.DB, logger.Named("molecules"), metrics)
	in.Jobs = repositories.NewScreeningJobRepository(in.DB, logger.Named("jobs"))

	in.Redis, err = redis.NewClient(&redis.RedisConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger.Named("redis"))
	if err != nil {
		return nil, err
	}
	in.closers = append(in.closers, in.Redis.Close)
	in.Cache = redis.NewRedisCache(in.Redis, logger.Named("cache"),
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Matching.CacheTTL))
	in.Locks = redis.NewLockFactory(in.Redis, logger.Named("locks"))

	if storage, serr := minio.NewClient(cfg.MinIO, logger.Named("minio")); serr != nil {
		logger.Warn("Object storage unavailable, screening reports will not be archived", logging.Err(serr))
	} else {
		in.Storage = storage
		in.Archive = minio.NewReportArchive(storage, logger.Named("archive"), metrics)
	}

	if in.Producer, err = kafka.NewProducer(ProducerConfig(cfg.Kafka), logger.Named("producer"), metrics); err != nil {
		return nil, err
	}
	in.closers = append(in.closers, in.Producer.Close)

	return in, nil
}

// ProducerConfig maps the kafka section onto the producer settings.
func ProducerConfig(cfg config.KafkaConfig) kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      cfg.Brokers,
		Acks:         "all",
		MaxRetries:   cfg.MaxRetries,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
	}
}

// ConsumerConfig maps the kafka section onto the consumer settings.
func ConsumerConfig(cfg config.KafkaConfig) kafka.ConsumerConfig {
	return kafka.ConsumerConfig{
		Brokers:         cfg.Brokers,
		GroupID:         cfg.GroupID,
		Topics:          []string{cfg.RequestTopic},
		AutoOffsetReset: cfg.AutoOffsetReset,
		Retry: kafka.RetryConfig{
			MaxRetries:      cfg.MaxRetries,
			RetryBackoff:    cfg.RetryBackoff,
			DeadLetterTopic: cfg.DeadLetterTopic,
		},
	}
}

// MatchingService builds the matching service over the opened stores.
func (in *Infra) MatchingService(cfg config.MatchingConfig) (*matching.Service, error) {
	energies, err := substructure.LoadBondEnergyFile(cfg.BondEnergyFile)
	if err != nil {
		return nil, err
	}
	deps := matching.Dependencies{
		Repo:     in.Molecules,
		Cache:    in.Cache,
		Archive:  in.Archive,
		Jobs:     in.Jobs,
		Metrics:  in.metrics,
		Energies: energies,
	}
	return matching.NewService(cfg, deps, in.logger.Named("matching")), nil
}

// HealthCheckers lists one readiness check per connected service.
func (in *Infra) HealthCheckers() []handlers.HealthChecker {
	checkers := []handlers.HealthChecker{
		handlers.CheckerFunc{Component: "postgres", Fn: in.DB.HealthCheck},
		handlers.CheckerFunc{Component: "redis", Fn: in.Redis.Ping},
	}
	if in.Storage != nil {
		checkers = append(checkers, handlers.CheckerFunc{Component: "minio", Fn: in.Storage.HealthCheck})
	}
	return checkers
}

// Close releases every service in reverse opening order.
func (in *Infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			in.logger.Warn("Failed to close backing service", logging.Err(err))
		}
	}
	in.closers = nil
}

// ShutdownContext bounds graceful shutdown work.
func ShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

//Personal.AI order the ending
