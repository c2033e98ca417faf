// Package metrics provides Prometheus metrics for the PharmaCRM AI service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the AI service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Engine metrics - one request counter and latency histogram per engine,
	// labeled so decision volume is visible per model.
	engineRequests *prometheus.CounterVec
	engineLatency  *prometheus.HistogramVec

	// Compliance metrics - the outcomes auditors care about.
	consentBlocks      prometheus.Counter
	guardrailTriggers  prometheus.Counter
	recommendations    *prometheus.CounterVec
	classifications    *prometheus.CounterVec
	summariesGenerated prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authFailures        prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pharmacrm",
		subsystem:        "ai",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.engineRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "engine_requests_total",
			Help:      "Total decision-engine invocations by engine",
		},
		[]string{"engine"},
	)

	m.engineLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "engine_latency_milliseconds",
			Help:      "Decision-engine computation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"engine"},
	)

	m.consentBlocks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consent_blocks_total",
		Help:      "NBA requests terminated by the consent gate (no consented channel)",
	})

	m.guardrailTriggers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guardrail_triggers_total",
		Help:      "Copilot messages refused by the medical-content guardrail",
	})

	m.recommendations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "nba_recommendations_total",
			Help:      "NBA recommendations by recommended channel (including none)",
		},
		[]string{"channel"},
	)

	m.classifications = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "segment_classifications_total",
			Help:      "Segment assignments by segment name",
		},
		[]string{"segment"},
	)

	m.summariesGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summaries_generated_total",
		Help:      "Account summaries generated",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
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

	m.authFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_failures_total",
		Help:      "Requests rejected for a missing or invalid API key",
	})
}

// RecordEngineRequest counts one engine invocation.
func RecordEngineRequest(engine string) {
	globalManager.engineRequests.WithLabelValues(engine).Inc()
}

// RecordEngineLatency records engine computation latency in milliseconds.
func RecordEngineLatency(engine string, latencyMs float64) {
	globalManager.engineLatency.WithLabelValues(engine).Observe(latencyMs)
}

// RecordConsentBlock counts an NBA request stopped by the consent gate.
func RecordConsentBlock() {
	globalManager.consentBlocks.Inc()
}

// RecordGuardrailTrigger counts a copilot medical-guardrail refusal.
func RecordGuardrailTrigger() {
	globalManager.guardrailTriggers.Inc()
}

// RecordRecommendation counts an NBA recommendation by channel.
func RecordRecommendation(channel string) {
	globalManager.recommendations.WithLabelValues(channel).Inc()
}

// RecordClassification counts a segment assignment.
func RecordClassification(segment string) {
	globalManager.classifications.WithLabelValues(segment).Inc()
}

// RecordSummaryGenerated counts one generated account summary.
func RecordSummaryGenerated() {
	globalManager.summariesGenerated.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordAuthFailure counts an API-key rejection.
func RecordAuthFailure() {
	globalManager.authFailures.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
