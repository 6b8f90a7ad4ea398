// Package metrics provides Prometheus metrics for the field data API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thermal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thermal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// BulkItemsTotal tracks bulk insert items by outcome.
	BulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thermal",
			Subsystem: "bulk",
			Name:      "items_total",
			Help:      "Total number of bulk insert items by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
