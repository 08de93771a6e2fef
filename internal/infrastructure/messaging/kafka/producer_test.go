package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

type capturingWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error {
	w.closed = true
	return nil
}

func sampleResult() *types.AnalysisResult {
	r := &types.AnalysisResult{
		RequestID: "req-123",
		Warnings:  []string{"no regulatory label found"},
	}
	r.ActiveCompound.Name = "Aspirin"
	r.Confidence = 0.85
	r.Toxicity.OverallRisk = types.RiskLow
	r.Timestamp = time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	return r
}

func TestPublishAnalysisCompleted(t *testing.T) {
	writer := &capturingWriter{}
	p := NewProducerWithWriter(writer, TopicAnalysisCompleted, logging.NewNopLogger())

	require.NoError(t, p.PublishAnalysisCompleted(context.Background(), sampleResult()))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte("req-123"), msg.Key)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, EventTypeAnalysisCompleted, env.EventType)
	assert.Equal(t, "pharmalens", env.Source)
	assert.NotEmpty(t, env.EventID)

	var payload AnalysisCompletedPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "req-123", payload.RequestID)
	assert.Equal(t, "Aspirin", payload.Compound)
	assert.InDelta(t, 0.85, payload.Confidence, 1e-9)
	assert.Equal(t, 1, payload.Warnings)
	assert.Equal(t, "LOW", payload.OverallRisk)
}

func TestPublish_WriterError(t *testing.T) {
	writer := &capturingWriter{err: errors.New("broker unreachable")}
	p := NewProducerWithWriter(writer, TopicAnalysisCompleted, logging.NewNopLogger())

	err := p.PublishAnalysisCompleted(context.Background(), sampleResult())
	require.Error(t, err)
}

func TestPublish_AfterCloseFailsFast(t *testing.T) {
	writer := &capturingWriter{}
	p := NewProducerWithWriter(writer, TopicAnalysisCompleted, logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)

	err := p.PublishAnalysisCompleted(context.Background(), sampleResult())
	assert.ErrorIs(t, err, ErrProducerClosed)
	assert.Empty(t, writer.messages)
}
