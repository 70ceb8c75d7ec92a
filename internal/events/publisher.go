// Package events publishes turn and stage-transition events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/metrics"
)

// Publisher writes events to one topic for turns and one for stage transitions.
// Messages are keyed by user id so a user's events stay ordered within a partition.
// When Kafka is disabled events are only logged.
type Publisher struct {
	writerTurns  *kafka.Writer
	writerStages *kafka.Writer
	principal    string
	topicTurns   string
	topicStages  string
	enabled      bool
	metrics      *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers     []string
	TopicTurns  string
	TopicStages string
	Principal   string
	Enabled     bool
}

// New creates a publisher. A nil config, Enabled=false or no brokers yields log-only mode.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{metrics: m}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:   cfg.Principal,
			topicTurns:  cfg.TopicTurns,
			topicStages: cfg.TopicStages,
			metrics:     m,
		}
	}

	// Longer dial timeout for DNS resolution in Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTurns", cfg.TopicTurns).
		Str("topicStages", cfg.TopicStages).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTurns:  newWriter(cfg.Brokers, cfg.TopicTurns, transport),
		writerStages: newWriter(cfg.Brokers, cfg.TopicStages, transport),
		principal:    cfg.Principal,
		topicTurns:   cfg.TopicTurns,
		topicStages:  cfg.TopicStages,
		enabled:      true,
		metrics:      m,
	}
}

func newWriter(brokers []string, topic string, transport *kafka.Transport) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}
}

// PublishTurn publishes a completed turn.
func (p *Publisher) PublishTurn(ctx context.Context, ev models.TurnCompleted) error {
	return p.publish(ctx, p.writerTurns, p.topicTurns, ev.EventType, ev.UserID, ev)
}

// PublishStage publishes a stage transition.
func (p *Publisher) PublishStage(ctx context.Context, ev models.StageChanged) error {
	return p.publish(ctx, p.writerStages, p.topicStages, ev.EventType, ev.UserID, ev)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("eventType", eventType).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTurns != nil {
		if e := p.writerTurns.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing turns writer")
			err = e
		}
	}
	if p.writerStages != nil {
		if e := p.writerStages.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing stages writer")
			err = e
		}
	}
	return err
}
