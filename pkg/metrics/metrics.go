package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FilterEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_events_total",
			Help: "Total number of chat events processed by the filtering dispatcher (count)",
		},
		[]string{"event", "status"},
	)

	FilterTriggeredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_triggered_total",
			Help: "Total number of rules triggered, by filter list (count)",
		},
		[]string{"list"},
	)

	FilterActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_actions_total",
			Help: "Total number of moderation actions requested, by description (count)",
		},
		[]string{"action"},
	)

	FilterAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_alerts_total",
			Help: "Total number of moderator alerts, by outcome (count)",
		},
		[]string{"status"},
	)

	FilterDispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filter_dispatch_duration_ms",
			Help:    "Full dispatch duration (fan-out through alerting) in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"event"},
	)

	FilterActiveRules = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filter_active_rules",
			Help: "Number of loaded rules per filter list (count)",
		},
		[]string{"list"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DLQMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_total",
			Help: "Total number of events sent to DLQ (count)",
		},
		[]string{"service", "topic", "reason"},
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
)

func RegisterFilterMetrics() {
	prometheus.MustRegister(
		FilterEventsTotal,
		FilterTriggeredTotal,
		FilterActionsTotal,
		FilterAlertsTotal,
		FilterDispatchDuration,
		FilterActiveRules,
	)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(
		RetryAttemptsTotal,
		DLQMessagesTotal,
	)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(
		CircuitBreakerState,
		CircuitBreakerRequests,
	)
}

func ObserveDispatchDuration(event string, d time.Duration) {
	FilterDispatchDuration.WithLabelValues(event).Observe(float64(d.Milliseconds()))
}

func SetActiveRules(list string, n int) {
	FilterActiveRules.WithLabelValues(list).Set(float64(n))
}
