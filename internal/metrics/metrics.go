package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the inspections service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec
	RateLimitedTotal     prometheus.Counter

	// Database Metrics
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// Import Metrics
	ImportItemsTotal   *prometheus.CounterVec
	ImportBatchSize    prometheus.Histogram
	InspectionsDeleted prometheus.Counter
}

// NewMetricsRegistry registers every metric with the default Prometheus registerer.
func NewMetricsRegistry() *MetricsRegistry {
	return NewMetricsRegistryWith(prometheus.DefaultRegisterer)
}

// NewMetricsRegistryWith registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewMetricsRegistryWith(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inspections_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inspections_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inspections_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "inspections_http_rate_limited_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),

		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inspections_db_queries_total",
				Help: "Total database queries by operation and outcome",
			},
			[]string{"operation", "result"},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inspections_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),

		ImportItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inspections_import_items_total",
				Help: "Bulk import items by result",
			},
			[]string{"result"},
		),
		ImportBatchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inspections_import_batch_size",
				Help:    "Number of items submitted per bulk import",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		InspectionsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "inspections_deleted_total",
				Help: "Inspection records removed by delete-by-id or delete-all",
			},
		),
	}
}
