package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	LessonCompleted      EventType = "lesson.completed"
	LessonUncompleted    EventType = "lesson.uncompleted"
	QuizAttemptSubmitted EventType = "quiz.attempt_submitted"
	BadgeAwarded         EventType = "badge.awarded"
	CertificateIssued    EventType = "certificate.issued"
	PostCreated          EventType = "community.post_created"
	LessonCreated        EventType = "catalog.lesson_created"
)

// Event is a domain fact emitted after a successful commit
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	UserID     string                 `json:"user_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent builds an event stamped with a fresh id and the current time
func NewEvent(eventType EventType, userID string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// EventPublisher publishes domain events to the message bus
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
