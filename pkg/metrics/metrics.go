package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_received_total",
			Help: "Total number of inbound events by processing result (count)",
		},
		[]string{"result"},
	)

	DedupChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_checks_total",
			Help: "Total number of dedup cache checks by outcome (count)",
		},
		[]string{"status"},
	)

	DedupCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_cache_size",
			Help: "Number of fingerprints currently tracked by the dedup cache (count)",
		},
	)

	DedupCacheExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dedup_cache_expired_total",
			Help: "Total number of cache entries evicted by the retention ceiling (count)",
		},
	)

	EventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_ms",
			Help:    "Per-event processing duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"result"},
	)

	ActionsExecutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actions_executed_total",
			Help: "Total number of follow-up actions dispatched by action name (count)",
		},
		[]string{"action"},
	)

	DevicesConfigured = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "devices_configured",
			Help: "Number of devices currently held by the config registry (count)",
		},
	)

	ForwarderPublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forwarder_publish_total",
			Help: "Total number of processed events published to the forwarder (count)",
		},
		[]string{"status"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)
)

func RegisterReceiverMetrics() {
	prometheus.MustRegister(
		EventsReceivedTotal,
		DedupChecksTotal,
		DedupCacheSize,
		DedupCacheExpiredTotal,
		EventProcessingDuration,
		ActionsExecutedTotal,
		DevicesConfigured,
	)
}

func RegisterForwarderMetrics() {
	prometheus.MustRegister(ForwarderPublishTotal)
}

func RegisterRateLimitMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerFailures,
	)
}

func ObserveEventProcessing(duration time.Duration, result string) {
	EventProcessingDuration.WithLabelValues(result).Observe(float64(duration.Milliseconds()))
}

func SetDedupCacheSize(size int) {
	DedupCacheSize.Set(float64(size))
}

func SetDevicesConfigured(count int) {
	DevicesConfigured.Set(float64(count))
}
