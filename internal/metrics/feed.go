package metrics

import "github.com/prometheus/client_golang/prometheus"

// Feed Prometheus metrics.
var (
	FeedFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskfeed",
			Name:      "feed_fetch_total",
			Help:      "Total number of document feed fetches",
		},
		[]string{"status"}, // "success" / error kind
	)

	FeedFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "riskfeed",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Document feed fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	FeedSupersededTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "riskfeed",
			Name:      "feed_superseded_total",
			Help:      "Fetch responses discarded because a newer fetch was issued",
		},
	)

	SnapshotDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "riskfeed",
			Name:      "snapshot_documents",
			Help:      "Documents in the current snapshot",
		},
		[]string{"band"}, // "all" / "high"
	)

	SnapshotAverageScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "riskfeed",
			Name:      "snapshot_average_score",
			Help:      "Rounded average risk score of the current snapshot",
		},
	)

	AlertsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskfeed",
			Name:      "alerts_sent_total",
			Help:      "High-risk alerts delivered per notifier",
		},
		[]string{"notifier", "status"}, // "success" / "error" / "dropped"
	)
)

var feedMetricsRegistered bool

// RegisterFeedMetrics registers Prometheus feed metrics. Must be called once from main.
func RegisterFeedMetrics() {
	if feedMetricsRegistered {
		return
	}
	prometheus.MustRegister(FeedFetchTotal)
	prometheus.MustRegister(FeedFetchDuration)
	prometheus.MustRegister(FeedSupersededTotal)
	prometheus.MustRegister(SnapshotDocuments)
	prometheus.MustRegister(SnapshotAverageScore)
	prometheus.MustRegister(AlertsSentTotal)
	feedMetricsRegistered = true
}
