package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/testutil"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true, EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	counter := c.RegisterCounter("requests_total", "Total requests", "method")
	counter.WithLabelValues("GET").Inc()
	counter.WithLabelValues("GET").Add(2)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_requests_total{method="GET"} 3`)
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("dup_total", "dup")
	b := c.RegisterCounter("dup_total", "dup")
	a.WithLabelValues().Inc()
	b.WithLabelValues().Inc()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_total 2")
}

func TestRegister_TypeMismatch(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, rec)
	require.NoError(t, err)

	c.RegisterCounter("shared", "as counter")
	g := c.RegisterGauge("shared", "as gauge")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(3) })
	assert.True(t, rec.HasMessage("warn", "metric type mismatch"))
}

func TestRegister_InvalidName(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, rec)
	require.NoError(t, err)

	h := c.RegisterHistogram("bad name", "invalid", nil)
	assert.NotPanics(t, func() { h.WithLabelValues().Observe(1) })
	assert.True(t, rec.HasMessage("error", "failed to register histogram"))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("inflight", "in flight", "op")
	g.WithLabelValues("match").Inc()
	g.WithLabelValues("match").Inc()
	g.WithLabelValues("match").Dec()

	h := c.RegisterHistogram("latency_seconds", "latency", []float64{1, 2})
	h.WithLabelValues().Observe(1.5)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_inflight{op="match"} 1`)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{le="2"} 1`)
	assert.Contains(t, out, "test_unit_latency_seconds_count 1")
}

func TestCollector_ConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("racy_total", "racy").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_racy_total 16")
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "timer", nil)
	timer := NewTimer(h.WithLabelValues())
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.ObserveDuration(), time.Millisecond)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestGatherer(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("gathered_total", "g").WithLabelValues().Inc()
	families, err := c.Gatherer().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "test_unit_gathered_total", families[0].GetName())
}

//Personal.AI order the ending
