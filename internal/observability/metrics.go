package observability

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Relay metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connections_active",
			Help: "Number of live WebSocket connections",
		},
	)

	MessagesBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_messages_broadcast_total",
			Help: "Total number of messages fanned out to live connections",
		},
	)

	ClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_clients_dropped_total",
			Help: "Connections dropped because their send buffer filled up",
		},
	)

	AppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_append_failures_total",
			Help: "Message persistence attempts that failed or were shed",
		},
	)

	HistorySnapshots = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_history_snapshots_total",
			Help: "History snapshots served to joining clients",
		},
	)

	// Database metrics
	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// CollectDBStats periodically publishes connection pool stats until ctx is done
func CollectDBStats(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBConnectionsOpen.Set(float64(stats.OpenConnections))
			DBConnectionsInUse.Set(float64(stats.InUse))
			DBConnectionsIdle.Set(float64(stats.Idle))
		}
	}
}
