package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acuity-health/triage-engine/pkg/common/logger"
	"github.com/acuity-health/triage-engine/pkg/common/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer publishes triage decisions to the event bus consumed by the
// downstream audit and scheduling collaborators.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{writer: writer}
}

// PublishDecision wraps a decision in the standard event envelope and
// writes it. Failures are reported to the caller, who logs and moves
// on: decision delivery to the patient never depends on the bus.
func (p *Producer) PublishDecision(ctx context.Context, decision models.TriageDecision) error {
	data := map[string]interface{}{
		"decision_id":    decision.ID,
		"category":       decision.Category,
		"priority_level": decision.PriorityLevel,
		"confidence":     decision.Confidence,
		"rule_version":   decision.RuleVersion,
		"model_version":  decision.ModelVersion,
		"decision":       decision,
	}

	event := models.Event{
		ID:        uuid.New().String(),
		Type:      "triage.decision",
		Source:    "triage-engine",
		Data:      data,
		Timestamp: time.Now(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.ID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id":    event.ID,
			"decision_id": decision.ID,
		}).Error("Failed to publish decision event")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"event_id":    event.ID,
		"decision_id": decision.ID,
		"topic":       p.writer.Topic,
	}).Info("Decision event published")

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
