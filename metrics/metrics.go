package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwise_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkwise_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Slot lifecycle metrics
	SlotTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwise_slot_transitions_total",
			Help: "Slot lifecycle transitions by name",
		},
		[]string{"transition"},
	)

	Payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwise_payments_total",
			Help: "Payment attempts by outcome",
		},
		[]string{"status"},
	)

	Revenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwise_revenue_total",
			Help: "Sum of costs of completed parkings",
		},
	)

	UserRegistrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkwise_user_registrations_total",
			Help: "Total number of registered accounts",
		},
	)

	QRScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkwise_qr_scans_total",
			Help: "Admin QR scans by result",
		},
		[]string{"result"},
	)
)

// RecordTransition counts a slot lifecycle transition.
func RecordTransition(name string) {
	SlotTransitions.WithLabelValues(name).Inc()
}

// RecordHTTPRequest counts a finished HTTP request.
func RecordHTTPRequest(method, route, status string) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
