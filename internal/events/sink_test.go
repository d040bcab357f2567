package events

import (
	"testing"
	"time"

	"github.com/ternarybob/peto/internal/models"
)

type recordingSink struct {
	events []models.Event
}

func (r *recordingSink) Emit(event models.Event) { r.events = append(r.events, event) }

func TestSessionSinkStampsSessionID(t *testing.T) {
	inner := &recordingSink{}
	sink := WithSession(inner, "session-123")

	sink.Emit(models.Event{Type: models.EventAttemptCompleted, JobID: "42"})

	if len(inner.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(inner.events))
	}
	got := inner.events[0]
	if got.SessionID != "session-123" {
		t.Errorf("expected session ID stamped, got %q", got.SessionID)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp stamped")
	}
	if got.JobID != "42" || got.Type != models.EventAttemptCompleted {
		t.Errorf("event fields must pass through unchanged: %+v", got)
	}
}

func TestSessionSinkKeepsExistingStamps(t *testing.T) {
	inner := &recordingSink{}
	sink := WithSession(inner, "session-123")

	emitted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sink.Emit(models.Event{
		Type:      models.EventAnswerUnresolved,
		SessionID: "other-session",
		Timestamp: emitted,
	})

	got := inner.events[0]
	if got.SessionID != "other-session" {
		t.Errorf("preset session ID must not be overwritten, got %q", got.SessionID)
	}
	if !got.Timestamp.Equal(emitted) {
		t.Errorf("preset timestamp must not be overwritten, got %s", got.Timestamp)
	}
}
