// -----------------------------------------------------------------------
// Session Governor - per-session application cap and time budget
// -----------------------------------------------------------------------

package session

import (
	"time"

	"github.com/ternarybob/arbor"
)

// Governor enforces the per-session application cap and the wall-clock
// session budget. Hitting either limit is a normal stop condition, not an
// error: the outer loop stops issuing new attempts while an in-flight
// attempt still completes.
type Governor struct {
	maxApplications int
	maxDuration     time.Duration
	started         time.Time
	submitted       int
	logger          arbor.ILogger
	now             func() time.Time
}

// NewGovernor creates a governor. A zero maxDuration disables the time
// budget.
func NewGovernor(maxApplications int, maxDuration time.Duration, logger arbor.ILogger) *Governor {
	g := &Governor{
		maxApplications: maxApplications,
		maxDuration:     maxDuration,
		logger:          logger,
		now:             time.Now,
	}
	g.started = g.now()
	return g
}

// Allow reports whether a new candidate may enter the form-step driver
func (g *Governor) Allow() bool {
	if g.submitted >= g.maxApplications {
		g.logger.Info().Int("submitted", g.submitted).Msg("Reached maximum application limit for this session")
		return false
	}
	if g.maxDuration > 0 && g.Elapsed() >= g.maxDuration {
		g.logger.Info().Str("elapsed", g.Elapsed().String()).Msg("Reached session time budget")
		return false
	}
	return true
}

// RecordSubmission counts one successful submission
func (g *Governor) RecordSubmission() {
	g.submitted++
}

// Submitted returns the number of applications submitted this session
func (g *Governor) Submitted() int {
	return g.submitted
}

// Elapsed returns the time since the session started
func (g *Governor) Elapsed() time.Duration {
	return g.now().Sub(g.started)
}
