package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaRequestTopic, cfg.Kafka.RequestTopic)
	assert.Equal(t, DefaultKafkaResultTopic, cfg.Kafka.ResultTopic)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)
	assert.Equal(t, DefaultBondMode, cfg.Matching.BondMode)
	assert.Equal(t, DefaultRanking, cfg.Matching.Ranking)
	assert.Equal(t, DefaultSearchTimeout, cfg.Matching.SearchTimeout)
	assert.Equal(t, DefaultScreenConcurrency, cfg.Matching.ScreenConcurrency)
	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Matching.Ranking = []string{"energy"}
	cfg.Matching.SearchTimeout = time.Second
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, []string{"energy"}, cfg.Matching.Ranking)
	assert.Equal(t, time.Second, cfg.Matching.SearchTimeout)
}

func TestApplyDefaults_RankingNotAliased(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Matching.Ranking[0] = "energy"
	assert.Equal(t, "stereo", DefaultRanking[0])
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
