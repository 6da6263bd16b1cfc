// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcript_merge"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Client streaming-session metrics
	StreamsTotal   prometheus.Counter
	StreamsActive  prometheus.Gauge
	StreamsSuccess prometheus.Counter
	StreamsFailed  prometheus.Counter
	StreamDuration prometheus.Histogram

	// Ingest metrics
	UpdatesIngested prometheus.Counter
	UpdatesRejected *prometheus.CounterVec
	RingDropped     prometheus.Counter
	RingAlmostFull  prometheus.Counter

	// Merge metrics
	MergeDuration      prometheus.Histogram
	TranscriptWords    prometheus.Gauge
	InteractionsOpen   prometheus.Gauge
	AlignerGapsUsed    prometheus.Histogram
	OpsApplied         *prometheus.CounterVec
	StaleCursorAdvance prometheus.Histogram

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		StreamsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_total",
			Help:      "Total number of client streaming sessions started",
		}),
		StreamsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streams_active",
			Help:      "Number of currently active client streaming sessions",
		}),
		StreamsSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_success_total",
			Help:      "Total number of streaming sessions that completed normally",
		}),
		StreamsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_failed_total",
			Help:      "Total number of streaming sessions that ended in cancellation or timeout",
		}),
		StreamDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_duration_seconds",
			Help:      "Duration of client streaming sessions in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		UpdatesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_ingested_total",
			Help:      "Total number of recognizer updates accepted for merging",
		}),
		UpdatesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_rejected_total",
			Help:      "Total number of malformed updates rejected before merge",
		}, []string{"reason"}),
		RingDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ring_dropped_total",
			Help:      "Total number of updates dropped for ring-buffer overflow",
		}),
		RingAlmostFull: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ring_almost_full_total",
			Help:      "Total number of times the ring buffer was observed near capacity",
		}),

		MergeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Time to merge one recognizer update into a transcript",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		TranscriptWords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transcript_words",
			Help:      "Number of words, segments included, in the most recently merged transcript",
		}),
		InteractionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interactions_open",
			Help:      "Number of interactions with a live engine in the registry",
		}),
		AlignerGapsUsed: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aligner_gaps_used",
			Help:      "Number of elements the fuzzy aligner's best match skipped after its last matched pair, per merge",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		OpsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_applied_total",
			Help:      "Total number of merge operations applied to a transcript, by operation type",
		}, []string{"op"}),
		StaleCursorAdvance: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stale_cursor_advance",
			Help:      "Number of words the stale_word_id cursor advanced by on a merge pass",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordStreamStart records a new client streaming session starting.
func (m *Metrics) RecordStreamStart() {
	m.StreamsTotal.Inc()
	m.StreamsActive.Inc()
}

// RecordStreamEnd records a streaming session ending.
func (m *Metrics) RecordStreamEnd(success bool, durationSeconds float64) {
	m.StreamsActive.Dec()
	m.StreamDuration.Observe(durationSeconds)
	if success {
		m.StreamsSuccess.Inc()
	} else {
		m.StreamsFailed.Inc()
	}
}

// RecordUpdateIngested records one update accepted into the ring.
func (m *Metrics) RecordUpdateIngested() {
	m.UpdatesIngested.Inc()
}

// RecordUpdateRejected records one update rejected by validation.
func (m *Metrics) RecordUpdateRejected(reason string) {
	m.UpdatesRejected.WithLabelValues(reason).Inc()
}

// RecordRingDropped records updates dropped for ring overflow.
func (m *Metrics) RecordRingDropped(count uint64) {
	m.RingDropped.Add(float64(count))
}

// RecordRingAlmostFull records the ring being observed near capacity.
func (m *Metrics) RecordRingAlmostFull() {
	m.RingAlmostFull.Inc()
}

// RecordMerge records one merge pass's duration and resulting word count.
func (m *Metrics) RecordMerge(durationSeconds float64, wordCount int) {
	m.MergeDuration.Observe(durationSeconds)
	m.TranscriptWords.Set(float64(wordCount))
}

// RecordAlignerGaps records the number of elements the fuzzy aligner's
// best match skipped after its last matched pair, for one merge pass.
func (m *Metrics) RecordAlignerGaps(gaps int) {
	m.AlignerGapsUsed.Observe(float64(gaps))
}

// RecordOpApplied records one merge operation of the given type being
// applied to a transcript.
func (m *Metrics) RecordOpApplied(opType string) {
	m.OpsApplied.WithLabelValues(opType).Inc()
}

// RecordStaleCursorAdvance records how far the stale_word_id cursor moved
// forward on a merge pass.
func (m *Metrics) RecordStaleCursorAdvance(delta int) {
	m.StaleCursorAdvance.Observe(float64(delta))
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
