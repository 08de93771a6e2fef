package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

var ErrProducerClosed = apperrors.New(apperrors.ErrCodeInternal, "kafka producer is closed")

// WriterInterface abstracts kafka.Writer so tests can capture messages.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes analysis events.  It satisfies the orchestrator's
// EventPublisher contract.
type Producer struct {
	writer  WriterInterface
	topic   string
	logger  logging.Logger
	metrics *appmetrics.AppMetrics
	closed  atomic.Bool
}

// NewProducer builds a Producer on a kafka-go writer.
func NewProducer(cfg config.KafkaConfig, log logging.Logger, metrics *appmetrics.AppMetrics) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	topic := cfg.Topic
	if topic == "" {
		topic = TopicAnalysisCompleted
	}
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchSize:    batchSize,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{
		writer:  writer,
		topic:   topic,
		logger:  log.Named("kafka_producer"),
		metrics: metrics,
	}
}

// NewProducerWithWriter injects a writer; used by tests.
func NewProducerWithWriter(writer WriterInterface, topic string, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: writer, topic: topic, logger: log}
}

// PublishAnalysisCompleted emits the completion event keyed by request id so
// per-request events stay ordered within a partition.
func (p *Producer) PublishAnalysisCompleted(ctx context.Context, result *types.AnalysisResult) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	env, err := NewEventEnvelope(EventTypeAnalysisCompleted, "pharmalens", AnalysisCompletedPayload{
		RequestID:   result.RequestID,
		Compound:    result.ActiveCompound.Name,
		Confidence:  result.Confidence,
		Warnings:    len(result.Warnings),
		OverallRisk: string(result.Toxicity.OverallRisk),
		CompletedAt: result.Timestamp,
	})
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Key:   []byte(result.RequestID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "schema_version", Value: []byte(env.SchemaVersion)},
		},
		Time: env.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to publish analysis event")
	}

	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(p.topic, "success").Inc()
	}
	p.logger.Debug("analysis event published",
		logging.String("request_id", result.RequestID),
		logging.String("topic", p.topic))
	return nil
}

// Close shuts the writer down.  Further publishes fail fast.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
