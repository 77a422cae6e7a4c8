package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proforma_calculations_total",
			Help: "Total number of pro forma calculations by operation and outcome status",
		},
		[]string{"operation", "status"},
	)

	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proforma_calculation_duration_seconds",
			Help:    "Duration of pro forma calculations in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "proforma_validation_failures_total",
			Help: "Total number of assumption sets rejected with violations",
		},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proforma_cache_requests_total",
			Help: "Result cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proforma_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "proforma_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "proforma_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
