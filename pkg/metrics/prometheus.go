// Package metrics provides Prometheus metrics for the roster service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the roster service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Storage Metrics - one series per table and operation
	storageOperations *prometheus.CounterVec
	storageLatency    *prometheus.HistogramVec
	storageErrors     *prometheus.CounterVec
	tableRows         *prometheus.GaugeVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

type globalState struct {
	manager  *Manager
	registry *prometheus.Registry
}

// global backs the package-level helpers. Replaced wholesale by Configure.
var global atomic.Pointer[globalState] //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // helpers must work before Configure
	Configure()
}

// Configure replaces the package-level manager with one built from opts on a
// fresh custom registry, and returns that registry. Call it before handlers
// that serve GetRegistry are built.
func Configure(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	global.Store(&globalState{manager: m, registry: registry})
	return registry
}

func manager() *Manager {
	return global.Load().manager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roster",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric family
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.storageOperations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Storage operations by table, operation and outcome",
		},
		[]string{"table", "operation", "outcome"},
	)

	m.storageLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "storage",
			Name:      "operation_latency_milliseconds",
			Help:      "Storage operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"table", "operation"},
	)

	m.storageErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Storage errors by table and engine result code",
		},
		[]string{"table", "code"},
	)

	m.tableRows = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: "storage",
			Name:      "table_rows",
			Help:      "Number of rows per table",
		},
		[]string{"table"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Errors by endpoint, method and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordHTTPRequest counts one handled request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes request latency.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordStorageOperation counts a storage call and observes its latency.
func (m *Manager) RecordStorageOperation(table, operation, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.storageOperations.WithLabelValues(table, operation, outcome).Inc()
	m.storageLatency.WithLabelValues(table, operation).Observe(latencyMs)
}

// RecordStorageError counts an engine error by its symbolic code.
func (m *Manager) RecordStorageError(table, code string) {
	if m.enabled {
		m.storageErrors.WithLabelValues(table, code).Inc()
	}
}

// UpdateTableRows sets the row gauge for table.
func (m *Manager) UpdateTableRows(table string, rows int64) {
	if m.enabled {
		m.tableRows.WithLabelValues(table).Set(float64(rows))
	}
}

// RecordErrorByType counts an error by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if m.enabled {
		m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint counts an error response by endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes the average GC pause.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// Package-level helpers delegate to the global manager.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	manager().RecordHTTPRequest(endpoint, method, statusCode)
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	manager().RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

func RecordStorageOperation(table, operation, outcome string, latencyMs float64) {
	manager().RecordStorageOperation(table, operation, outcome, latencyMs)
}

func RecordStorageError(table, code string) {
	manager().RecordStorageError(table, code)
}

func UpdateTableRows(table string, rows int64) {
	manager().UpdateTableRows(table, rows)
}

func RecordErrorByType(errorType, severity string) {
	manager().RecordErrorByType(errorType, severity)
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	manager().RecordErrorByEndpoint(endpoint, method, errorType)
}

func UpdateSystemMemoryUsage(bytes uint64) {
	manager().UpdateSystemMemoryUsage(bytes)
}

func UpdateSystemGoroutineCount(count int) {
	manager().UpdateSystemGoroutineCount(count)
}

func RecordSystemGCPauseTime(pauseMs float64) {
	manager().RecordSystemGCPauseTime(pauseMs)
}

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return global.Load().registry
}
