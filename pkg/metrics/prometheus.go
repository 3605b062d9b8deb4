// Package metrics provides Prometheus metrics for the headlights service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// animationBuckets cover a bare fill (~0ms) up to a long blink on a slow bus.
var animationBuckets = []float64{1, 5, 25, 100, 250, 500, 750, 1000, 1500, 2500, 5000} //nolint:gochecknoglobals // bucket table

// Manager manages all Prometheus metrics for the headlights service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline
	eventsReceived   *prometheus.CounterVec
	eventsClassified *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec

	// Animations
	animations        *prometheus.CounterVec
	animationDuration *prometheus.HistogramVec
	commitErrors      prometheus.Counter
	brightness        prometheus.Gauge

	// Pending slot
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	queueRejected prometheus.Counter

	// Transports
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	natsMessages        *prometheus.CounterVec
}

// Global metrics manager instance.
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
		namespace:        "headlights",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)

	m.eventsReceived = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_received_total",
			Help:      "Total number of raw events received by transport",
		},
		[]string{"source"},
	)

	m.eventsClassified = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_classified_total",
			Help:      "Total number of events by classified type",
		},
		[]string{"type"},
	)

	m.eventsDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_dropped_total",
			Help:      "Total number of events not shown, by reason",
		},
		[]string{"reason"},
	)

	m.animations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "animations_total",
			Help:      "Total number of animations run to completion",
		},
		[]string{"pattern", "type"},
	)

	m.animationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "animation_duration_milliseconds",
			Help:      "Wall time of an animation in milliseconds",
			Buckets:   animationBuckets,
		},
		[]string{"pattern"},
	)

	m.commitErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "commit_errors_total",
		Help:      "Total number of failed strip commits",
	})

	m.brightness = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "brightness_ceiling",
		Help:      "Configured strip brightness ceiling",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Number of animations waiting for the strip",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum number of pending animations",
	})

	m.queueRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_rejected_total",
		Help:      "Total number of events rejected because the pending slot was full",
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

	m.natsMessages = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "nats_messages_total",
			Help:      "Total number of queue messages by handling result",
		},
		[]string{"result"},
	)
}

// RecordEventReceived counts a raw event from source ("http", "nats", ...).
func RecordEventReceived(source string) {
	globalManager.eventsReceived.WithLabelValues(source).Inc()
}

// RecordEventClassified counts an event by its classified type.
func RecordEventClassified(eventType string) {
	globalManager.eventsClassified.WithLabelValues(eventType).Inc()
}

// RecordEventDropped counts an event that was not shown.
func RecordEventDropped(reason string) {
	globalManager.eventsDropped.WithLabelValues(reason).Inc()
}

// RecordAnimation records a completed animation and its wall time.
func RecordAnimation(pattern, eventType string, durationMs float64) {
	globalManager.animations.WithLabelValues(pattern, eventType).Inc()
	globalManager.animationDuration.WithLabelValues(pattern).Observe(durationMs)
}

// RecordCommitError increments the failed commit counter.
func RecordCommitError() {
	globalManager.commitErrors.Inc()
}

// UpdateBrightnessCeiling sets the configured brightness ceiling.
func UpdateBrightnessCeiling(level int) {
	globalManager.brightness.Set(float64(level))
}

// UpdateQueueSize sets the number of pending animations.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the pending slot capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected increments the rejected counter.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordNATSMessage counts a queue message by result ("handled", "duplicate", "invalid", ...).
func RecordNATSMessage(result string) {
	globalManager.natsMessages.WithLabelValues(result).Inc()
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
