// -----------------------------------------------------------------------
// Event Sink - structured observability events over the arbor logger
// -----------------------------------------------------------------------

package events

import (
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/interfaces"
	"github.com/ternarybob/peto/internal/models"
)

// LogSink is the production event sink: every event becomes one structured
// log line. Tests inject a recording sink instead.
type LogSink struct {
	logger arbor.ILogger
}

// NewLogSink creates a sink writing to the given logger
func NewLogSink(logger arbor.ILogger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit writes the event as a structured log line. Unresolved answers log at
// warn level so they surface for human review.
func (s *LogSink) Emit(event models.Event) {
	entry := s.logger.Info()
	if event.Type == models.EventAnswerUnresolved {
		entry = s.logger.Warn()
	}

	entry = entry.Str("event", event.Type)
	if event.SessionID != "" {
		entry = entry.Str("session_id", event.SessionID)
	}
	if event.JobID != "" {
		entry = entry.Str("job_id", event.JobID)
	}
	for key, value := range event.Fields {
		entry = entry.Str(key, value)
	}

	entry.Msg("Workflow event")
}

// SessionSink decorates another sink, stamping each event with the session
// correlation ID and an emission timestamp when the emitter left them blank.
type SessionSink struct {
	inner     interfaces.EventSink
	sessionID string
}

// WithSession wraps a sink so emitted events carry the session ID
func WithSession(inner interfaces.EventSink, sessionID string) *SessionSink {
	return &SessionSink{inner: inner, sessionID: sessionID}
}

func (s *SessionSink) Emit(event models.Event) {
	if event.SessionID == "" {
		event.SessionID = s.sessionID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.inner.Emit(event)
}
