// Package config defines all configuration structures for the molmatch
// services.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// APITokens enables bearer authentication on /api/v1 when non-empty.
	APITokens []string        `mapstructure:"api_tokens"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig caps API requests per client IP.  Zero Requests disables
// limiting.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the molecule store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN renders the connection string understood by the pgx stdlib driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// RedisConfig holds Redis connection parameters for the result cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds screening job queue parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	RequestTopic    string        `mapstructure:"request_topic"`
	ResultTopic     string        `mapstructure:"result_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	AutoOffsetReset string        `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
}

// MinIOConfig holds object-storage parameters for screening reports.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	Region        string        `mapstructure:"region"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// MatchingConfig holds search defaults applied when a request leaves an
// option unset.
type MatchingConfig struct {
	BondMode          string        `mapstructure:"bond_mode"` // "any" | "exact" | "unsaturation"
	RemoveHydrogens   bool          `mapstructure:"remove_hydrogens"`
	MaxMappings       int           `mapstructure:"max_mappings"`
	Ranking           []string      `mapstructure:"ranking"`
	BondEnergyFile    string        `mapstructure:"bond_energy_file"`
	SearchTimeout     time.Duration `mapstructure:"search_timeout"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	MaxQueryAtoms     int           `mapstructure:"max_query_atoms"`
	MaxScreenTargets  int           `mapstructure:"max_screen_targets"`
	ScreenConcurrency int           `mapstructure:"screen_concurrency"`
}

// WorkerConfig holds screening worker execution parameters.
type WorkerConfig struct {
	Concurrency     int           `mapstructure:"concurrency"`
	JobTimeout      time.Duration `mapstructure:"job_timeout"`
	ArchiveReports  bool          `mapstructure:"archive_reports"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "text"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
	Port      int    `mapstructure:"port"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure shared by the CLI, the API
// server and the screening worker.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Matching MatchingConfig `mapstructure:"matching"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	if c.Server.RateLimit.Requests < 0 {
		return fmt.Errorf("config: server.rate_limit.requests must be ≥ 0, got %d", c.Server.RateLimit.Requests)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.RequestTopic == "" || c.Kafka.ResultTopic == "" {
		return fmt.Errorf("config: kafka.request_topic and kafka.result_topic are required")
	}

	// Matching
	switch c.Matching.BondMode {
	case "any", "exact", "unsaturation":
	default:
		return fmt.Errorf("config: matching.bond_mode %q is invalid; expected any|exact|unsaturation", c.Matching.BondMode)
	}
	if c.Matching.MaxMappings < 0 {
		return fmt.Errorf("config: matching.max_mappings must be ≥ 0, got %d", c.Matching.MaxMappings)
	}
	seen := make(map[string]bool, len(c.Matching.Ranking))
	for _, r := range c.Matching.Ranking {
		switch r {
		case "stereo", "fragment", "energy":
		default:
			return fmt.Errorf("config: matching.ranking entry %q is invalid; expected stereo|fragment|energy", r)
		}
		if seen[r] {
			return fmt.Errorf("config: matching.ranking lists %q twice", r)
		}
		seen[r] = true
	}
	if c.Matching.ScreenConcurrency < 1 {
		return fmt.Errorf("config: matching.screen_concurrency must be ≥ 1, got %d", c.Matching.ScreenConcurrency)
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
