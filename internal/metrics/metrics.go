package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook outcomes used as the status label of WebhookRequests.
const (
	OutcomeStored        = "stored"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeMisconfigured = "misconfigured"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
)

// Storage operations used as the op label of StorageDuration.
const (
	OpInsert    = "insert"
	OpPing      = "ping"
	OpBootstrap = "bootstrap"
)

var (
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooks_webhook_requests_total",
			Help: "Total number of webhook requests by outcome",
		},
		[]string{"status"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hooks_storage_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooks_storage_errors_total",
			Help: "Total number of failed storage operations",
		},
		[]string{"op"},
	)

	// 1 reachable, 0 unreachable, -1 not configured.
	HealthDBUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hooks_health_db_up",
			Help: "Result of the last health probe against the database",
		},
	)

	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hooks_event_publish_errors_total",
			Help: "Total number of stored events that could not be published to the stream",
		},
	)
)
