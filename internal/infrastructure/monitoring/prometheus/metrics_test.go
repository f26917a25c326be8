package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.SearchesTotal)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.MappingsFound)
	assert.NotNil(t, m.ScreenJobsTotal)
	assert.NotNil(t, m.CacheRequestsTotal)
	assert.NotNil(t, m.MessagesTotal)
	assert.NotNil(t, m.HealthCheckStatus)
}

func TestRecordSearch(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordSearch(m, "count", 12, 2*time.Millisecond, nil)
	RecordSearch(m, "count", 0, time.Millisecond, errors.New("cancelled"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_searches_total{operation="count",outcome="ok"} 1`)
	assert.Contains(t, out, `test_unit_searches_total{operation="count",outcome="error"} 1`)
	assert.Contains(t, out, `test_unit_search_duration_seconds_count{operation="count"} 2`)
	assert.Contains(t, out, `test_unit_mappings_found_sum{operation="count"} 12`)
	assert.Contains(t, out, `test_unit_mappings_found_count{operation="count"} 1`)
}

func TestRecordScreenJob(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordScreenJob(m, "kafka", 3, 5, 1, time.Second, nil)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_screen_jobs_total{source="kafka",status="ok"} 1`)
	assert.Contains(t, out, `test_unit_screen_targets_total{result="hit"} 3`)
	assert.Contains(t, out, `test_unit_screen_targets_total{result="miss"} 5`)
	assert.Contains(t, out, `test_unit_screen_targets_total{result="failed"} 1`)
}

func TestRecordInfrastructure(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordCacheAccess(m, true)
	RecordCacheAccess(m, false)
	RecordCacheAccess(m, false)
	RecordDBQuery(m, "find", time.Millisecond, errors.New("boom"))
	RecordMessage(m, "molmatch.screen.requests", nil)
	RecordHTTPRequest(m, "POST", "/api/v1/match", 200, 5*time.Millisecond)
	RecordError(m, "api", "MATCH_001")
	RecordArchiveUpload(m, nil)
	SetHealth(m, "redis", true)
	SetHealth(m, "kafka", false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_cache_requests_total{result="hit"} 1`)
	assert.Contains(t, out, `test_unit_cache_requests_total{result="miss"} 2`)
	assert.Contains(t, out, `test_unit_errors_total{code="query_error",component="postgres"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{code="MATCH_001",component="api"} 1`)
	assert.Contains(t, out, `test_unit_messages_total{status="ok",topic="molmatch.screen.requests"} 1`)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/api/v1/match",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_archive_uploads_total{status="ok"} 1`)
	assert.Contains(t, out, `test_unit_health_check_status{component="redis"} 1`)
	assert.Contains(t, out, `test_unit_health_check_status{component="kafka"} 0`)
}

func TestNewNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()
	assert.NotPanics(t, func() {
		RecordSearch(m, "exists", 1, time.Millisecond, nil)
		RecordScreenJob(m, "api", 1, 1, 1, time.Second, nil)
		RecordCacheAccess(m, true)
		SetHealth(m, "postgres", true)
		m.ActiveSearches.WithLabelValues("x").Inc()
		m.ArchiveUploads.WithLabelValues("ok").Inc()
		m.ReactionsMapped.WithLabelValues("ok").Inc()
	})
}

//Personal.AI order the ending
