package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the molmatch services export.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Matching engine
	SearchesTotal   CounterVec
	SearchDuration  HistogramVec
	MappingsFound   HistogramVec
	ActiveSearches  GaugeVec
	ReactionsMapped CounterVec

	// Screening
	ScreenJobsTotal    CounterVec
	ScreenTargetsTotal CounterVec
	ScreenDuration     HistogramVec

	// Infrastructure
	CacheRequestsTotal CounterVec
	DBQueryDuration    HistogramVec
	MessagesTotal      CounterVec
	ArchiveUploads     CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSearchDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30}
	DefaultScreenDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900}
	DefaultMappingBuckets        = []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 512, 2048}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.SearchesTotal = collector.RegisterCounter("searches_total", "Substructure searches by operation and outcome", "operation", "outcome")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Substructure search duration", DefaultSearchDurationBuckets, "operation")
	m.MappingsFound = collector.RegisterHistogram("mappings_found", "Mappings returned per search", DefaultMappingBuckets, "operation")
	m.ActiveSearches = collector.RegisterGauge("active_searches", "Searches currently running", "operation")
	m.ReactionsMapped = collector.RegisterCounter("reactions_mapped_total", "Reaction mapping requests", "outcome")

	m.ScreenJobsTotal = collector.RegisterCounter("screen_jobs_total", "Screening jobs by source and status", "source", "status")
	m.ScreenTargetsTotal = collector.RegisterCounter("screen_targets_total", "Screened targets by result", "result")
	m.ScreenDuration = collector.RegisterHistogram("screen_duration_seconds", "Screening job duration", DefaultScreenDurationBuckets, "source")

	m.CacheRequestsTotal = collector.RegisterCounter("cache_requests_total", "Result cache lookups", "result")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Molecule store query duration", DefaultDBDurationBuckets, "operation")
	m.MessagesTotal = collector.RegisterCounter("messages_total", "Queue messages handled", "topic", "status")
	m.ArchiveUploads = collector.RegisterCounter("archive_uploads_total", "Screening report uploads", "status")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// NewNoopMetrics returns metrics that discard every observation.  Used by
// the CLI and by tests that do not assert on metrics.
func NewNoopMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   noopCounterVec{},
		HTTPRequestDuration: noopHistogramVec{},
		HTTPActiveRequests:  noopGaugeVec{},
		SearchesTotal:       noopCounterVec{},
		SearchDuration:      noopHistogramVec{},
		MappingsFound:       noopHistogramVec{},
		ActiveSearches:      noopGaugeVec{},
		ReactionsMapped:     noopCounterVec{},
		ScreenJobsTotal:     noopCounterVec{},
		ScreenTargetsTotal:  noopCounterVec{},
		ScreenDuration:      noopHistogramVec{},
		CacheRequestsTotal:  noopCounterVec{},
		DBQueryDuration:     noopHistogramVec{},
		MessagesTotal:       noopCounterVec{},
		ArchiveUploads:      noopCounterVec{},
		HealthCheckStatus:   noopGaugeVec{},
		ErrorsTotal:         noopCounterVec{},
	}
}

// Helpers

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSearch records one completed search.  mappings is ignored on error.
func RecordSearch(m *AppMetrics, operation string, mappings int, duration time.Duration, err error) {
	m.SearchesTotal.WithLabelValues(operation, outcome(err)).Inc()
	m.SearchDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err == nil {
		m.MappingsFound.WithLabelValues(operation).Observe(float64(mappings))
	}
}

func RecordScreenJob(m *AppMetrics, source string, hits, misses, failed int, duration time.Duration, err error) {
	m.ScreenJobsTotal.WithLabelValues(source, outcome(err)).Inc()
	m.ScreenDuration.WithLabelValues(source).Observe(duration.Seconds())
	m.ScreenTargetsTotal.WithLabelValues("hit").Add(float64(hits))
	m.ScreenTargetsTotal.WithLabelValues("miss").Add(float64(misses))
	m.ScreenTargetsTotal.WithLabelValues("failed").Add(float64(failed))
}

func RecordCacheAccess(m *AppMetrics, hit bool) {
	if hit {
		m.CacheRequestsTotal.WithLabelValues("hit").Inc()
		return
	}
	m.CacheRequestsTotal.WithLabelValues("miss").Inc()
}

func RecordDBQuery(m *AppMetrics, operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("postgres", "query_error").Inc()
	}
}

func RecordMessage(m *AppMetrics, topic string, err error) {
	m.MessagesTotal.WithLabelValues(topic, outcome(err)).Inc()
}

func RecordArchiveUpload(m *AppMetrics, err error) {
	m.ArchiveUploads.WithLabelValues(outcome(err)).Inc()
}

func RecordError(m *AppMetrics, component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

// SetHealth reports component as up (1) or down (0).
func SetHealth(m *AppMetrics, component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
