// Package metrics provides Prometheus metrics for the site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tembaro"

var (
	// HTTPRequests counts handled requests by route template and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request duration.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BackendErrors counts failed writes against the database or media bucket.
	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Total number of failed backend writes",
		},
		[]string{"kind", "op"},
	)

	// EventsPublished counts broker publishes.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of events published to RabbitMQ",
		},
		[]string{"routing_key", "status"},
	)

	// ContactRateLimited counts contact submissions rejected by the limiter.
	ContactRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_rate_limited_total",
			Help:      "Total number of contact submissions rejected by the rate limiter",
		},
	)

	// Notifications counts operator webhook deliveries.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of operator notifications",
		},
		[]string{"status"},
	)

	// SessionEvents counts admin sign-ins and sign-outs.
	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Total number of admin session changes",
		},
		[]string{"event"},
	)
)

// RecordRequest records a handled HTTP request.
func RecordRequest(method, route, status string, seconds float64) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordBackendError records a failed write.
func RecordBackendError(kind, op string) {
	BackendErrors.WithLabelValues(kind, op).Inc()
}

// RecordPublish records a publish attempt.
func RecordPublish(routingKey string, err error) {
	EventsPublished.WithLabelValues(routingKey, status(err)).Inc()
}

// RecordNotification records a webhook delivery attempt.
func RecordNotification(err error) {
	Notifications.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
