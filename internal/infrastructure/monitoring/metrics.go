package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Each instance carries its own
// registry so tests can construct collectors freely.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP server metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Relay metrics
	RelayRequests      *prometheus.CounterVec
	RelayDuration      *prometheus.HistogramVec
	RelayResponseBytes prometheus.Histogram
	RelayBlocked       prometheus.Counter

	// History / WebSocket metrics
	HistoryRecorded prometheus.Counter
	WSConnections   prometheus.Gauge

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	start := time.Now()

	return &Metrics{
		registry:  registry,
		startTime: start,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiver_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		RelayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiver_relay_requests_total",
				Help: "Total relay invocations by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		RelayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiver_relay_duration_seconds",
				Help:    "Outbound call duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),
		RelayResponseBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quiver_relay_response_bytes",
				Help:    "Raw outbound response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
		),
		RelayBlocked: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "quiver_relay_blocked_total",
				Help: "Relay requests rejected by the private-network deny list",
			},
		),

		HistoryRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "quiver_history_entries_total",
				Help: "History entries recorded",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "quiver_ws_connections",
				Help: "Active WebSocket connections",
			},
		),

		Uptime: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "quiver_uptime_seconds",
				Help: "Process uptime in seconds",
			},
			func() float64 { return time.Since(start).Seconds() },
		),
	}
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize > 0 {
		m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

// RecordRelay records one relay invocation.
func (m *Metrics) RecordRelay(method, outcome string, duration time.Duration, respBytes int) {
	m.RelayRequests.WithLabelValues(method, outcome).Inc()
	if duration > 0 {
		m.RelayDuration.WithLabelValues(method).Observe(duration.Seconds())
	}
	if respBytes > 0 {
		m.RelayResponseBytes.Observe(float64(respBytes))
	}
}

// RecordRelayBlocked counts a deny-list rejection.
func (m *Metrics) RecordRelayBlocked() {
	m.RelayBlocked.Inc()
}

// RecordHistory counts a recorded history entry.
func (m *Metrics) RecordHistory() {
	m.HistoryRecorded.Inc()
}

// Handler returns the Prometheus scrape handler for this collector set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
