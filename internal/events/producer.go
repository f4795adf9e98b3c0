package events

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/structures"
)

const (
	EventFeedbackSubmitted = "feedback_submitted"
	EventTestCompleted     = "test_completed"

	producerID = "cvdd"
)

type eventMetadata struct {
	Timestamp  string `json:"timestamp"`
	UserID     string `json:"user_id"`
	ProducerID string `json:"producer_id"`
	Version    string `json:"version"`
}

type eventEnvelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Metadata  eventMetadata   `json:"metadata"`
}

type EventProducerInterface interface {
	PublishFeedback(ctx context.Context, feedback *models.FeedbackData) error
	PublishTestCompleted(ctx context.Context, result *models.CVDResult) error
	Close() error
}

// EventProducer ships feedback and test-completion events to the
// analytics topic. Publishing is fire-and-forget from the app's point
// of view; a failed publish is reported so the caller can queue the
// event for a later sync instead.
type EventProducer struct {
	writer  *kafka.Writer
	version string
	logger  providers.Logger
}

func NewEventProducer(conf *structures.Config, logger providers.Logger) EventProducerInterface {
	if !conf.Events.Enabled || len(conf.Events.Brokers) == 0 {
		logger.Infof(providers.TypeSync, "Event producer disabled")
		return &noopProducer{}
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  conf.Events.Brokers,
		Topic:    conf.Events.Topic,
		Balancer: &kafka.LeastBytes{},
	})
	logger.Infof(providers.TypeSync, "Event producer connected to %v, topic %s", conf.Events.Brokers, conf.Events.Topic)

	return &EventProducer{
		writer:  writer,
		version: conf.Version,
		logger:  logger,
	}
}

func (p *EventProducer) publish(ctx context.Context, eventType, userID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	envelope := eventEnvelope{
		EventType: eventType,
		Data:      payload,
		Metadata: eventMetadata{
			Timestamp:  time.Now().Format(time.RFC3339),
			UserID:     userID,
			ProducerID: producerID,
			Version:    p.version,
		},
	}
	value, err := json.Marshal(&envelope)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: value,
	})
	if err != nil {
		p.logger.Warnf(providers.TypeSync, "Failed to publish %s event: %s", eventType, err)
		return err
	}
	return nil
}

func (p *EventProducer) PublishFeedback(ctx context.Context, feedback *models.FeedbackData) error {
	return p.publish(ctx, EventFeedbackSubmitted, feedback.UserID, feedback)
}

func (p *EventProducer) PublishTestCompleted(ctx context.Context, result *models.CVDResult) error {
	return p.publish(ctx, EventTestCompleted, result.UserID, result)
}

func (p *EventProducer) Close() error {
	return p.writer.Close()
}

type noopProducer struct{}

func (n *noopProducer) PublishFeedback(_ context.Context, _ *models.FeedbackData) error { return nil }

func (n *noopProducer) PublishTestCompleted(_ context.Context, _ *models.CVDResult) error {
	return nil
}

func (n *noopProducer) Close() error { return nil }
