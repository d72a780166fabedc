package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gw_points_wallet"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WalletMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "mutations_total",
			Help:      "Committed wallet mutations partitioned by ledger type.",
		},
		[]string{"type"},
	)

	WalletPointsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "points_total",
			Help:      "Points moved by committed mutations partitioned by ledger type.",
		},
		[]string{"type"},
	)

	IdempotentReplaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "idempotency",
			Name:      "replays_total",
			Help:      "Requests short-circuited because their key was already processed.",
		},
		[]string{"endpoint"},
	)

	BusinessErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "business_errors_total",
			Help:      "Rejected operations partitioned by error code.",
		},
		[]string{"code"},
	)

	PaymentTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "transitions_total",
			Help:      "Payment state transitions.",
		},
		[]string{"from", "to"},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordWalletMutation records a committed balance change.
func RecordWalletMutation(ledgerType string, amount int64) {
	WalletMutationsTotal.WithLabelValues(ledgerType).Inc()
	WalletPointsTotal.WithLabelValues(ledgerType).Add(float64(amount))
}

// RecordReplay records a request answered from the idempotency guard.
func RecordReplay(endpoint string) {
	IdempotentReplaysTotal.WithLabelValues(endpoint).Inc()
}

// RecordBusinessError records a rejected operation.
func RecordBusinessError(code string) {
	BusinessErrorsTotal.WithLabelValues(code).Inc()
}

// RecordPaymentTransition records a payment moving between states.
func RecordPaymentTransition(from, to string) {
	PaymentTransitionsTotal.WithLabelValues(from, to).Inc()
}
