package metrics

import "github.com/prometheus/client_golang/prometheus"

// Label values.
const (
	ResultOK    = "ok"
	ResultError = "error"

	BatchFull = "full"
	BatchTail = "tail"
)

var (
	// GeneratedRecords counts generator writes by result.
	GeneratedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asbatch",
			Subsystem: "generator",
			Name:      "records_total",
			Help:      "Counter of generated records written to the store.",
		}, []string{"result"})

	// ScannedRecords counts records delivered by scans.
	ScannedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "asbatch",
			Subsystem: "scan",
			Name:      "records_total",
			Help:      "Counter of records delivered by scans.",
		})

	// FlushedBatches counts processed batches by kind.
	FlushedBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asbatch",
			Subsystem: "scan",
			Name:      "batches_total",
			Help:      "Counter of flushed batches.",
		}, []string{"kind"})

	// DroppedRecords counts records left in the buffer when the tail is not flushed.
	DroppedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "asbatch",
			Subsystem: "scan",
			Name:      "dropped_records_total",
			Help:      "Counter of records left unflushed at the end of a scan.",
		})

	// StoreDuration observes store operation latency.
	StoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "asbatch",
			Subsystem: "store",
			Name:      "handle_duration_seconds",
			Help:      "Bucketed histogram of store operation latency (s).",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 13),
		}, []string{"type"})
)

func init() {
	prometheus.MustRegister(GeneratedRecords)
	prometheus.MustRegister(ScannedRecords)
	prometheus.MustRegister(FlushedBatches)
	prometheus.MustRegister(DroppedRecords)
	prometheus.MustRegister(StoreDuration)
}
