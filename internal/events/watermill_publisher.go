package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillPublisher publishes events as JSON messages on one topic per event type
type WatermillPublisher struct {
	publisher   message.Publisher
	topicPrefix string
	logger      *slog.Logger
}

// NewKafkaPublisher creates a publisher backed by Kafka
func NewKafkaPublisher(brokers []string, topicPrefix string, logger *slog.Logger) (*WatermillPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &WatermillPublisher{
		publisher:   publisher,
		topicPrefix: topicPrefix,
		logger:      logger,
	}, nil
}

// NewInMemoryPublisher creates a publisher on an in-process go channel bus.
// The returned GoChannel can be used to subscribe to the same topics.
func NewInMemoryPublisher(topicPrefix string, logger *slog.Logger) (*WatermillPublisher, *gochannel.GoChannel) {
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
	return &WatermillPublisher{
		publisher:   bus,
		topicPrefix: topicPrefix,
		logger:      logger,
	}, bus
}

// Topic returns the topic name an event type is published on
func (p *WatermillPublisher) Topic(eventType EventType) string {
	return Topic(p.topicPrefix, eventType)
}

// Topic joins a prefix and an event type into a topic name
func Topic(prefix string, eventType EventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("user_id", event.UserID)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.Topic(event.Type), msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "event_type", event.Type, "event_id", event.ID)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
