// Package kafka publishes analysis lifecycle events for downstream consumers
// (indexers, notification fan-out, audit).
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// Topic constants.
const (
	TopicAnalysisCompleted = "analysis.completed"
)

// Event type constants carried in the envelope and message headers.
const (
	EventTypeAnalysisCompleted = "analysis.completed"
)

// EventEnvelope is the standard message shape on every PharmaLens topic.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// AnalysisCompletedPayload summarises a finished analysis.  The full result
// lives in the history store; events carry only what routing and alerting
// need.
type AnalysisCompletedPayload struct {
	RequestID  string    `json:"request_id"`
	Compound   string    `json:"compound"`
	Confidence float64   `json:"confidence"`
	Warnings   int       `json:"warnings"`
	OverallRisk string   `json:"overall_risk"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewEventEnvelope wraps a payload in a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 {
		return apperrors.New(apperrors.ErrCodeValidation, "event has no payload")
	}
	return json.Unmarshal(e.Payload, target)
}
