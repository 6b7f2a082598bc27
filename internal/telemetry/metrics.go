package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestsTotal counts HTTP requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamsphere_api_requests_total",
		Help: "Total HTTP requests served.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes request latency in seconds.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamsphere_api_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections gauges in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamsphere_api_active_connections",
		Help: "In-flight HTTP requests.",
	})

	// APIWebSocketConnections gauges live event stream clients.
	APIWebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamsphere_api_websocket_connections",
		Help: "Connected event stream clients.",
	})

	// ContentItemsTotal gauges the current catalog size.
	ContentItemsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamsphere_content_items_total",
		Help: "Catalog items currently stored.",
	})

	// ViewsRecorded counts view tallies accepted.
	ViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamsphere_views_recorded_total",
		Help: "View events recorded.",
	})

	// DownloadsStarted counts simulated downloads queued.
	DownloadsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamsphere_downloads_started_total",
		Help: "Simulated downloads started.",
	})

	// DownloadsActive tracks records with a running progress ticker.
	DownloadsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamsphere_downloads_active",
		Help: "Number of downloads currently advancing.",
	})

	// DownloadsCompleted counts simulated downloads finished.
	DownloadsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamsphere_downloads_completed_total",
		Help: "Simulated downloads completed.",
	})

	// LoginAttempts counts admin gate logins by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamsphere_login_attempts_total",
		Help: "Admin login attempts by outcome.",
	}, []string{"outcome"})

	// BackupsCreated counts backup archives written.
	BackupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamsphere_backups_created_total",
		Help: "Backup archives written.",
	})

	// LeaderStatus is 1 while this instance holds the auto-backup lease.
	LeaderStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamsphere_leader_status",
		Help: "Whether this instance is the auto-backup leader.",
	})

	// LeaderChanges counts leadership transitions seen by this instance.
	LeaderChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamsphere_leader_changes_total",
		Help: "Leadership transitions observed.",
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
