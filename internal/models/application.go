package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the history file timestamp format
const TimestampLayout = "2006-01-02 15:04:05"

// Result codes recorded in the history file. Every attempt terminates with
// exactly one of these (or an error result built by ErrorResult).
const (
	ResultApplied          = "Applied"
	ResultNoEasyApply      = "No Easy Apply"
	ResultBlacklistedTitle = "Blacklisted title"
	ResultClickFailed      = "Easy Apply click failed"
	ResultExhausted        = "Submission exhausted"
)

// ErrorResult builds the result code for an attempt that ended in an
// unexpected error.
func ErrorResult(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// ApplicationRecord is the durable outcome of one application attempt.
// Append-only: never mutated or deleted after write.
type ApplicationRecord struct {
	Timestamp time.Time `json:"timestamp"`
	JobID     string    `json:"job_id"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company"`
	Attempted bool      `json:"attempted"` // True only when the application was submitted
	Result    string    `json:"result"`
	URL       string    `json:"url"`
}

// Submitted reports whether the record describes a successful submission
func (r ApplicationRecord) Submitted() bool {
	return r.Result == ResultApplied
}
