package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Navigation metrics
	Navigations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram

	// Regulator metrics
	Enforcements *prometheus.CounterVec
	Verdicts     *prometheus.CounterVec

	// Collaborator metrics
	AICalls *prometheus.CounterVec

	// State gauges
	TabsOpen    prometheus.Gauge
	SitesCached prometheus.Gauge
}

// New creates a Metrics instance with its own registry so multiple
// instances can coexist in tests.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "censornet_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "censornet_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		Navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "censornet_navigations_total",
			Help: "Tab navigations by outcome (home, cached, generated, blocked, failed)",
		}, []string{"outcome"}),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "censornet_generation_duration_seconds",
			Help:    "Content generation latency",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		Enforcements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "censornet_enforcements_total",
			Help: "Enforcement actions by action and resulting status",
		}, []string{"action", "outcome"}),
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "censornet_verdicts_total",
			Help: "Court verdicts by ruling",
		}, []string{"verdict"}),
		AICalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "censornet_ai_calls_total",
			Help: "Collaborator calls by kind and status (ok, error, fallback)",
		}, []string{"kind", "status"}),
		TabsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "censornet_tabs_open",
			Help: "Currently open tabs",
		}),
		SitesCached: factory.NewGauge(prometheus.GaugeOpts{
			Name: "censornet_sites_cached",
			Help: "Site records in the store",
		}),
	}
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAICall records a collaborator call outcome.
func (m *Metrics) RecordAICall(kind, status string) {
	m.AICalls.WithLabelValues(kind, status).Inc()
}
