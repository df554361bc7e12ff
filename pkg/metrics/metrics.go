package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensIssued counts bearer tokens minted for inscriptions, by reason (initial|refresh).
	TokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wesettle_inscription_tokens_issued_total",
			Help: "Total number of inscription bearer tokens minted",
		},
		[]string{"reason"},
	)

	// Validations counts inscription validation outcomes (validated|noop).
	Validations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wesettle_inscription_validations_total",
			Help: "Total number of inscription validation requests",
		},
		[]string{"outcome"},
	)

	// EmailDeliveries counts notification emails by result (success|failure).
	EmailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wesettle_email_deliveries_total",
			Help: "Total number of notification email deliveries",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wesettle_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
