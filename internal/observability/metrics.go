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
		Name: "litreview_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litreview_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedBuildLatency records how long feed assembly takes per scope.
	FeedBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litreview_feed_build_latency_seconds",
		Help:    "Feed build latency in seconds by scope",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	// FeedEntriesReturned records the number of entries per built feed.
	FeedEntriesReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litreview_feed_entries_returned",
		Help:    "Number of entries returned per feed build",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	}, []string{"scope"})

	// FollowOperations counts follow graph mutations by action and result.
	FollowOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litreview_follow_operations_total",
		Help: "Total follow and unfollow operations by action and result",
	}, []string{"action", "result"})

	// ContentCreated counts tickets and reviews created.
	ContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litreview_content_created_total",
		Help: "Total tickets and reviews created by kind",
	}, []string{"kind"})

	// ImageProcessingLatency records uploaded image decode and resize latency.
	ImageProcessingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litreview_image_processing_latency_seconds",
		Help:    "Image decode and resize latency in seconds by source format",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
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

// ObserveFeedBuild records feed build latency and entry count for the scope.
func ObserveFeedBuild(scope string, entries int, start time.Time) {
	FeedBuildLatency.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	FeedEntriesReturned.WithLabelValues(scope).Observe(float64(entries))
}

// RecordFollowOperation increments the follow operation counter.
func RecordFollowOperation(action, result string) {
	FollowOperations.WithLabelValues(action, result).Inc()
}

// RecordContentCreated increments the content creation counter for the kind.
func RecordContentCreated(kind string) {
	ContentCreated.WithLabelValues(kind).Inc()
}

// ObserveImageProcessing records decode/resize/encode latency for an upload.
func ObserveImageProcessing(format string, start time.Time) {
	ImageProcessingLatency.WithLabelValues(format).Observe(time.Since(start).Seconds())
}
