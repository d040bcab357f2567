package models

// SentinelJobID is the placeholder identifier the site assigns to
// search-result rows that are not actual job listings.
const SentinelJobID = "search"

// AppliedMarker appears in a listing snippet when the site already shows
// the job as applied for this account.
const AppliedMarker = "Applied"

// JobCandidate is a job listing identified during discovery, not yet
// attempted. Read-only; discarded after the attempt completes.
type JobCandidate struct {
	// ID is the opaque site-assigned job identifier
	ID string `json:"id"`

	// Snippet is the raw listing card text, used only for blacklist matching
	Snippet string `json:"snippet"`

	// Company is a best-effort extraction from the listing card
	Company string `json:"company,omitempty"`
}
