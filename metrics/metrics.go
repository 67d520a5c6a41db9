// Package metrics provides Prometheus metrics collection for the medivoice
// API. Besides the usual HTTP request metrics it tracks which extraction
// tier produced a vitals record and how completion-gateway calls resolve.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	// VitalsExtractionTotal counts extraction outcomes by the tier that
	// settled the record: primary short-circuit, merged with the fallback,
	// or empty when no strategy produced anything.
	VitalsExtractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitals_extraction_total",
			Help: "Vitals extraction outcomes by tier",
		},
		[]string{"tier"},
	)

	// CompletionRequestsTotal counts completion-gateway calls by outcome:
	// ok, empty, timeout or error.
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_requests_total",
			Help: "Text-completion gateway calls by outcome",
		},
		[]string{"outcome"},
	)

	// CatalogReloadsTotal counts catalog reloads by result.
	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(VitalsExtractionTotal)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CatalogReloadsTotal)
}
