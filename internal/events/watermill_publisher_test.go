package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisher_InMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	pub, bus := NewInMemoryPublisher("academy", logger)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, "academy.lesson.completed")
	require.NoError(t, err)

	event := NewEvent(LessonCompleted, "user-1", map[string]interface{}{"lesson_id": "l1"})
	require.NoError(t, pub.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(LessonCompleted), msg.Metadata.Get("event_type"))

		var got Event
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "l1", got.Payload["lesson_id"])
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "quiz.attempt_submitted", Topic("", QuizAttemptSubmitted))
	assert.Equal(t, "academy.badge.awarded", Topic("academy", BadgeAwarded))
}

func TestMockEventPublisher(t *testing.T) {
	m := NewMockEventPublisher(nil)
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, NewEvent(BadgeAwarded, "u", nil)))
	require.NoError(t, m.Publish(ctx, NewEvent(LessonCompleted, "u", nil)))

	assert.Len(t, m.Events(), 2)
	assert.Len(t, m.OfType(BadgeAwarded), 1)
}

func TestRunAuditLog(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	pub, bus := NewInMemoryPublisher("", logger)
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, RunAuditLog(ctx, bus, "", logger))
	assert.NoError(t, pub.Publish(ctx, NewEvent(CertificateIssued, "u", nil)))
}
