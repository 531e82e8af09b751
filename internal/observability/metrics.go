package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec

	notificationsPublishedTotal *prometheus.CounterVec
	activityEntriesTotal        *prometheus.CounterVec
	websocketConnectionsActive  prometheus.Gauge
	realtimeRoomsActive         prometheus.Gauge
	realtimeDroppedTotal        *prometheus.CounterVec
	materialUploadsTotal        *prometheus.CounterVec
	materialUploadRejected      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		notificationsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of notifications published, by recipient type.",
		}, []string{"recipient_type"})

		activityEntriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_entries_total",
			Help: "Total number of activity log entries recorded, by outcome.",
		}, []string{"result"})

		websocketConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of websocket clients currently connected.",
		})

		realtimeRoomsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_rooms_active",
			Help: "Number of rooms with at least one connected client.",
		})

		realtimeDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtime_messages_dropped_total",
			Help: "Events dropped because a client send buffer was full.",
		}, []string{"event"})

		materialUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "material_uploads_total",
			Help: "Total number of accepted material uploads, by format.",
		}, []string{"format"})

		materialUploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "material_uploads_rejected_total",
			Help: "Material uploads rejected before storage, by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(
			adminRequestsTotal, adminLatencySeconds, adminErrorsTotal,
			notificationsPublishedTotal, activityEntriesTotal,
			websocketConnectionsActive, realtimeRoomsActive, realtimeDroppedTotal,
			materialUploadsTotal, materialUploadRejected,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// NotificationsPublished exposes the notification publish counter.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublishedTotal
}

// ActivityEntries exposes the activity log entry counter.
func ActivityEntries() *prometheus.CounterVec {
	RegisterMetrics()
	return activityEntriesTotal
}

// WebsocketConnections exposes the active connection gauge.
func WebsocketConnections() prometheus.Gauge {
	RegisterMetrics()
	return websocketConnectionsActive
}

// RealtimeRooms exposes the active room gauge.
func RealtimeRooms() prometheus.Gauge {
	RegisterMetrics()
	return realtimeRoomsActive
}

// RealtimeDropped exposes the dropped event counter.
func RealtimeDropped() *prometheus.CounterVec {
	RegisterMetrics()
	return realtimeDroppedTotal
}

// MaterialUploads exposes the accepted upload counter.
func MaterialUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return materialUploadsTotal
}

// MaterialUploadRejections exposes the rejected upload counter.
func MaterialUploadRejections() *prometheus.CounterVec {
	RegisterMetrics()
	return materialUploadRejected
}
