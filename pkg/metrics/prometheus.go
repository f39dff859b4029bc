package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Hit test
	attempts             *prometheus.CounterVec
	validationRejections *prometheus.CounterVec
	hitTestDuration      prometheus.Histogram

	// Sessions
	sessionsMinted  prometheus.Counter
	sessionsCleared prometheus.Counter
	historyLength   prometheus.Histogram

	// History store
	historyOps       *prometheus.CounterVec
	historyLatency   *prometheus.HistogramVec
	historyErrors    *prometheus.CounterVec
	historyCorrupted *prometheus.CounterVec
	historyLocks     prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // served by /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "areacheck",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.attempts = auto.NewCounterVec(
		m.counterOpts("attempts_total", "Answered hit tests by outcome"),
		[]string{"outcome"},
	)
	m.validationRejections = auto.NewCounterVec(
		m.counterOpts("validation_rejections_total", "Rejected inputs by field and reason"),
		[]string{"field", "kind"},
	)
	m.hitTestDuration = auto.NewHistogram(m.histogramOpts(
		"hit_test_duration_microseconds",
		"Wall-clock duration of the hit test alone",
		[]float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250},
	))

	m.sessionsMinted = auto.NewCounter(m.counterOpts("sessions_minted_total", "Session ids created by the server"))
	m.sessionsCleared = auto.NewCounter(m.counterOpts("sessions_cleared_total", "Explicit history clears"))
	m.historyLength = auto.NewHistogram(m.histogramOpts(
		"history_length",
		"Session history length after an append",
		prometheus.ExponentialBuckets(1, 2, 12),
	))

	m.historyOps = auto.NewCounterVec(
		m.counterOpts("history_operations_total", "History store operations by backend and op"),
		[]string{"backend", "op"},
	)
	m.historyLatency = auto.NewHistogramVec(
		m.histogramOpts("history_operation_latency_milliseconds", "History store operation latency", m.histogramBuckets),
		[]string{"backend", "op"},
	)
	m.historyErrors = auto.NewCounterVec(
		m.counterOpts("history_errors_total", "History store I/O failures by backend and op"),
		[]string{"backend", "op"},
	)
	m.historyCorrupted = auto.NewCounterVec(
		m.counterOpts("history_corrupted_total", "Persisted histories that failed to decode and were treated as empty"),
		[]string{"backend"},
	)
	m.historyLocks = auto.NewGauge(m.gaugeOpts("history_session_locks", "Session locks currently held or awaited"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	))
}

// RecordAttempt counts an answered hit test and its duration.
func RecordAttempt(hit bool, durationNanos int64) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	globalManager.attempts.WithLabelValues(outcome).Inc()
	globalManager.hitTestDuration.Observe(float64(durationNanos) / 1e3)
}

// RecordValidationRejection counts a rejected input.
func RecordValidationRejection(field, kind string) {
	globalManager.validationRejections.WithLabelValues(field, kind).Inc()
}

// RecordSessionMinted counts a server-generated session id.
func RecordSessionMinted() {
	globalManager.sessionsMinted.Inc()
}

// RecordSessionCleared counts an explicit clear.
func RecordSessionCleared() {
	globalManager.sessionsCleared.Inc()
}

// RecordHistoryLength observes the history length after an append.
func RecordHistoryLength(n int) {
	globalManager.historyLength.Observe(float64(n))
}

// RecordHistoryOperation counts a store operation and its latency.
func RecordHistoryOperation(backend, op string, latencyMs float64) {
	globalManager.historyOps.WithLabelValues(backend, op).Inc()
	globalManager.historyLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordHistoryError counts a store I/O failure.
func RecordHistoryError(backend, op string) {
	globalManager.historyErrors.WithLabelValues(backend, op).Inc()
}

// RecordHistoryCorrupted counts a persisted history that could not be decoded.
func RecordHistoryCorrupted(backend string) {
	globalManager.historyCorrupted.WithLabelValues(backend).Inc()
}

// UpdateHistoryLocks sets the number of live session locks.
func UpdateHistoryLocks(n int) {
	globalManager.historyLocks.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
