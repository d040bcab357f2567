// -----------------------------------------------------------------------
// Candidate Filter - blacklist and dedup checks before an attempt starts
// -----------------------------------------------------------------------

package filter

import (
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/common"
	"github.com/ternarybob/peto/internal/models"
)

// Rejection reasons, in the order the checks run
const (
	ReasonAlreadyApplied     = "already applied (site marker)"
	ReasonBlacklistedCompany = "blacklisted company"
	ReasonSentinelID         = "non-job search row"
	ReasonRecentlyApplied    = "recently applied"
	ReasonBlacklistedTitle   = "blacklisted title"
)

// Filter decides whether a discovered candidate may proceed to an
// application attempt. It reads the candidate and the dedup set only; it
// has no side effects.
type Filter struct {
	companies []string
	titles    []string // lowercased
	recent    map[string]struct{}
	logger    arbor.ILogger
}

// New creates a candidate filter. The recent set holds job identifiers
// whose history record falls within the recency window.
func New(blacklist common.BlacklistConfig, recent map[string]struct{}, logger arbor.ILogger) *Filter {
	titles := make([]string, len(blacklist.Titles))
	for i, t := range blacklist.Titles {
		titles[i] = strings.ToLower(t)
	}
	if recent == nil {
		recent = map[string]struct{}{}
	}
	return &Filter{
		companies: blacklist.Companies,
		titles:    titles,
		recent:    recent,
		logger:    logger,
	}
}

// Check runs the pre-navigation rejection rules in order. Accepted
// candidates return ok=true; rejected ones return the reason.
func (f *Filter) Check(candidate models.JobCandidate) (reason string, ok bool) {
	if strings.Contains(candidate.Snippet, models.AppliedMarker) {
		return ReasonAlreadyApplied, false
	}

	// Company blacklist entries are matched case-sensitively, as authored
	for _, company := range f.companies {
		if strings.Contains(candidate.Snippet, company) {
			return ReasonBlacklistedCompany, false
		}
	}

	if candidate.ID == models.SentinelJobID {
		return ReasonSentinelID, false
	}

	if _, applied := f.recent[candidate.ID]; applied {
		return ReasonRecentlyApplied, false
	}

	return "", true
}

// BlacklistedTitle reports whether a job title contains any blacklisted
// keyword, case-insensitively. Checked only after navigating to the job
// page, since the title is not known earlier.
func (f *Filter) BlacklistedTitle(title string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range f.titles {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// MarkApplied adds a job identifier to the dedup set for the remainder of
// the session, so a listing surfaced twice is not attempted twice.
func (f *Filter) MarkApplied(jobID string) {
	f.recent[jobID] = struct{}{}
}
