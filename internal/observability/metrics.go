package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoria_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "memoria_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReportsSubmitted counts reports created by reported item type.
	ReportsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoria_reports_submitted_total",
		Help: "Total number of reports submitted, by reported item type",
	}, []string{"reported_type"})

	// ReportsReviewed counts report review decisions by outcome.
	ReportsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoria_reports_reviewed_total",
		Help: "Total number of report reviews, by outcome (resolved/dismissed)",
	}, []string{"outcome"})

	// ModerationActions counts administrative moderation actions by kind.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoria_moderation_actions_total",
		Help: "Total number of moderation actions, by action kind",
	}, []string{"action"})

	// NotificationsFannedOut counts admin notifications created by notification type.
	NotificationsFannedOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoria_notifications_fanned_out_total",
		Help: "Total number of notifications created during admin fan-out, by type",
	}, []string{"type"})

	// AccountDeletions counts completed account deletion cascades.
	AccountDeletions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memoria_account_deletions_total",
		Help: "Total number of completed account deletion cascades",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
