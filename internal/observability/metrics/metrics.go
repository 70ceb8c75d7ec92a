// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_language_tutor"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Turn metrics
	TurnsTotal    *prometheus.CounterVec
	TurnsActive   prometheus.Gauge
	TurnDuration  *prometheus.HistogramVec
	ApologiesSent *prometheus.CounterVec

	// Session metrics
	SessionsActive   prometheus.Gauge
	StageTransitions *prometheus.CounterVec

	// Provider metrics
	ProviderLatency *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
	ProviderRetries *prometheus.CounterVec

	// Quiz metrics
	QuizQuestionsParsed prometheus.Counter
	QuizBlocksSkipped   prometheus.Counter

	// Audio metrics
	VoiceBytesReceived prometheus.Counter
	VoiceRejected      *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// gRPC health surface
	RPCTotal *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Turn metrics
		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of turns processed",
		}, []string{"kind", "outcome"}),
		TurnsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "turns_active",
			Help:      "Number of turns currently being processed",
		}),
		TurnDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Duration of turns in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"kind"}),
		ApologiesSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apologies_sent_total",
			Help:      "Total number of generic apologies sent after collaborator failures",
		}, []string{"error_class"}),

		// Session metrics
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live user sessions",
		}),
		StageTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_transitions_total",
			Help:      "Total number of session stage transitions",
		}, []string{"from", "to"}),

		// Provider metrics
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Latency of AI collaborator calls in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"op", "provider"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Total number of AI collaborator errors",
		}, []string{"op", "provider", "kind"}),
		ProviderRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_retries_total",
			Help:      "Total number of retried AI collaborator calls",
		}, []string{"op", "provider"}),

		// Quiz metrics
		QuizQuestionsParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_questions_parsed_total",
			Help:      "Total number of quiz questions extracted from model output",
		}),
		QuizBlocksSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_blocks_skipped_total",
			Help:      "Total number of malformed quiz blocks dropped by the parser",
		}),

		// Audio metrics
		VoiceBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_bytes_received_total",
			Help:      "Total voice note bytes received",
		}),
		VoiceRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_rejected_total",
			Help:      "Total number of voice notes rejected before transcription",
		}, []string{"reason"}),

		// Kafka publish metrics
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

		RPCTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_calls_total",
			Help:      "Total number of gRPC calls served",
		}, []string{"method", "code"}),
	}
}

// RecordTurnStart records a turn entering the router.
func (m *Metrics) RecordTurnStart() {
	m.TurnsActive.Inc()
}

// RecordTurnEnd records a finished turn.
func (m *Metrics) RecordTurnEnd(kind, outcome string, durationSeconds float64) {
	m.TurnsActive.Dec()
	m.TurnsTotal.WithLabelValues(kind, outcome).Inc()
	m.TurnDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordApology records a generic apology replacing a failed reply.
func (m *Metrics) RecordApology(errorClass string) {
	m.ApologiesSent.WithLabelValues(errorClass).Inc()
}

// SetActiveSessions sets the live session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.SessionsActive.Set(float64(n))
}

// RecordStageTransition records a session moving between stages.
func (m *Metrics) RecordStageTransition(from, to string) {
	m.StageTransitions.WithLabelValues(from, to).Inc()
}

// RecordProviderCall records one collaborator attempt.
func (m *Metrics) RecordProviderCall(op, provider string, latencySeconds float64) {
	m.ProviderLatency.WithLabelValues(op, provider).Observe(latencySeconds)
}

// RecordProviderError records a collaborator error.
func (m *Metrics) RecordProviderError(op, provider, kind string) {
	m.ProviderErrors.WithLabelValues(op, provider, kind).Inc()
}

// RecordProviderRetry records a retried collaborator call.
func (m *Metrics) RecordProviderRetry(op, provider string) {
	m.ProviderRetries.WithLabelValues(op, provider).Inc()
}

// RecordQuizParse records the outcome of one parser run.
func (m *Metrics) RecordQuizParse(parsed, skipped int) {
	m.QuizQuestionsParsed.Add(float64(parsed))
	m.QuizBlocksSkipped.Add(float64(skipped))
}

// RecordVoiceReceived records voice note bytes received.
func (m *Metrics) RecordVoiceReceived(bytes int) {
	m.VoiceBytesReceived.Add(float64(bytes))
}

// RecordVoiceRejected records a voice note rejected before transcription.
func (m *Metrics) RecordVoiceRejected(reason string) {
	m.VoiceRejected.WithLabelValues(reason).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordRPC records a served gRPC call.
func (m *Metrics) RecordRPC(method, code string) {
	m.RPCTotal.WithLabelValues(method, code).Inc()
}
