// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts catalog calls by provider and outcome
	// (ok, not_found, error, rejected).
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_upstream_requests_total",
			Help: "Catalog requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediashelf_upstream_request_duration_seconds",
			Help:    "Catalog request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediashelf_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	// EnrichmentFallbacks counts items served with placeholder or zeroed fields
	EnrichmentFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_enrichment_fallbacks_total",
			Help: "Items returned with fallback data after a failed lookup",
		},
		[]string{"operation"},
	)

	GenreTableSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediashelf_genre_table_size",
			Help: "Entries in the genre lookup table",
		},
		[]string{"kind"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "status"},
	)
)
