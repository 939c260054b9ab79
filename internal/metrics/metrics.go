// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_job_runs_total",
			Help: "Background job runs by job and outcome.",
		},
		[]string{"job", "outcome"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_job_duration_seconds",
			Help:    "Background job duration.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"job"},
	)

	CustomersImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_customers_imported_total",
			Help: "Customer reports created by the daily import, by source.",
		},
		[]string{"source"},
	)

	FirstTimePayments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_first_time_payments_total",
			Help: "First-time payments counted by the payment check.",
		},
	)
)
