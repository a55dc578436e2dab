package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// AllEventTypes lists every event type the service emits
var AllEventTypes = []EventType{
	LessonCompleted,
	LessonUncompleted,
	QuizAttemptSubmitted,
	BadgeAwarded,
	CertificateIssued,
	PostCreated,
	LessonCreated,
}

// RunAuditLog subscribes to every event topic and writes one log line per
// event until ctx is cancelled.
func RunAuditLog(ctx context.Context, sub message.Subscriber, topicPrefix string, logger *slog.Logger) error {
	for _, eventType := range AllEventTypes {
		messages, err := sub.Subscribe(ctx, Topic(topicPrefix, eventType))
		if err != nil {
			return err
		}
		go consumeAudit(messages, logger)
	}
	return nil
}

func consumeAudit(messages <-chan *message.Message, logger *slog.Logger) {
	for msg := range messages {
		var event Event
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			logger.Warn("Dropping malformed event", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}
		logger.Info("Domain event",
			"event_type", event.Type,
			"event_id", event.ID,
			"user_id", event.UserID,
			"payload", event.Payload)
		msg.Ack()
	}
}
