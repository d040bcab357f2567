package models

import "time"

// Event types emitted to the observability sink
const (
	EventAnswerUnresolved  = "answer_unresolved"
	EventCandidateRejected = "candidate_rejected"
	EventAttemptCompleted  = "attempt_completed"
	EventSessionStopped    = "session_stopped"
)

// Event is a structured observability event. The sink is injected so the
// workflow engine can be tested without a global side channel.
type Event struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id,omitempty"`
	JobID     string            `json:"job_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
