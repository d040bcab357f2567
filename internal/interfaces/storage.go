package interfaces

import (
	"time"

	"github.com/ternarybob/peto/internal/models"
)

// HistoryStore persists application outcomes. Load is tolerant of a missing
// file (returns empty state); Append writes one whole record atomically so a
// crash mid-write never leaves a partial row visible to a later Load.
type HistoryStore interface {
	Load() ([]models.ApplicationRecord, error)
	Append(record models.ApplicationRecord) error

	// RecentJobIDs returns the identifiers of attempts whose timestamp falls
	// within the recency window, used to seed the dedup set at startup.
	RecentJobIDs(window time.Duration) (map[string]struct{}, error)
}

// KnowledgeStore persists question/answer pairs. Records are append-only and
// returned in insertion order, which first-match-wins resolution depends on.
type KnowledgeStore interface {
	Load() ([]models.QARecord, error)
	Append(record models.QARecord) error
}
