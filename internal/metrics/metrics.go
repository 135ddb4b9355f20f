package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "irontemple_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BookingAttemptsTotal counts booking requests by outcome: booked,
	// past_class, capacity, duplicate.
	BookingAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_booking_attempts_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_booking_status_changes_total",
			Help: "Booking status updates by new status",
		},
		[]string{"status"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"duration"},
	)

	SubscriptionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_subscription_transitions_total",
			Help: "Subscription status transitions by target status",
		},
		[]string{"status"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_payments_total",
			Help: "Payment workflow events by stage",
		},
		[]string{"stage"},
	)

	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_gateway_requests_total",
			Help: "Payment gateway session requests by outcome",
		},
		[]string{"outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irontemple_gateway_request_duration_seconds",
			Help:    "Payment gateway session request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	GatewayBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "irontemple_gateway_breaker_state",
			Help: "Payment gateway circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "irontemple_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irontemple_events_published_total",
			Help: "Domain events handed to the broker by type and status",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingAttempt(outcome string) {
	BookingAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingStatus(status string) {
	BookingStatusChangesTotal.WithLabelValues(status).Inc()
}

func RecordSubscription(duration string) {
	SubscriptionsCreatedTotal.WithLabelValues(duration).Inc()
}

func RecordSubscriptionTransition(status string, n int) {
	SubscriptionTransitionsTotal.WithLabelValues(status).Add(float64(n))
}

func RecordPayment(stage string) {
	PaymentsTotal.WithLabelValues(stage).Inc()
}

func RecordGatewayRequest(outcome string, seconds float64) {
	GatewayRequestsTotal.WithLabelValues(outcome).Inc()
	GatewayRequestDuration.Observe(seconds)
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEvent(eventType, status string) {
	EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}
