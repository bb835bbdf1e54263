package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventfs_messages_appended_total",
		Help: "Total number of messages appended to the stream",
	})

	MessagesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventfs_messages_read_total",
		Help: "Total number of messages read back from the stream",
	})

	BytesAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventfs_bytes_appended_total",
		Help: "Total payload bytes appended to the stream",
	})

	BytesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventfs_bytes_read_total",
		Help: "Total payload bytes read back from the stream",
	})

	AppendLatencyHist = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventfs_append_latency_seconds",
		Help:    "Histogram of append latency",
		Buckets: prometheus.DefBuckets,
	})

	TopicHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eventfs_topic_height",
		Help: "Current persisted write height (next free block number)",
	})

	SnapshotWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventfs_snapshot_writes_total",
		Help: "Total number of snapshot slot writes",
	})

	ReadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eventfs_read_errors_total",
		Help: "Total number of failed message reads",
	})
)
