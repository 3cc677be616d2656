package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptstudio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptstudio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SessionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptstudio_session_requests_total",
			Help: "Total number of session booking requests",
		},
		[]string{"type", "outcome"},
	)

	SessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptstudio_session_transitions_total",
			Help: "Total number of session status transitions",
		},
		[]string{"to"},
	)

	PackagesRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptstudio_packages_registered_total",
			Help: "Total number of packages registered or re-registered",
		},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptstudio_notifications_queued_total",
			Help: "Total number of notification jobs queued",
		},
		[]string{"template"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptstudio_notifications_sent_total",
			Help: "Total number of notification deliveries attempted",
		},
		[]string{"status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptstudio_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}
