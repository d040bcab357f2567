// -----------------------------------------------------------------------
// Form-Step Driver - drives one application from Easy Apply invocation to
// a terminal submitted/failed state
// -----------------------------------------------------------------------

package apply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/interfaces"
	"github.com/ternarybob/peto/internal/models"
)

// TitleBlacklist rejects job titles by configured keyword
type TitleBlacklist interface {
	BlacklistedTitle(title string) bool
}

// Config holds the driver's per-session settings
type Config struct {
	BaseURL         string
	PhoneNumber     string
	Uploads         map[string]string // Document kind -> file path
	MaxStepAttempts int               // Form-step iteration budget
}

// Driver advances one application through the multi-step Easy Apply wizard.
// It always reaches a terminal state within the iteration budget and records
// exactly one outcome per candidate, whatever the page does.
type Driver struct {
	session     interfaces.BrowserSession
	resolver    interfaces.AnswerResolver
	history     interfaces.HistoryStore
	sink        interfaces.EventSink
	pacer       interfaces.Pacer
	titles      TitleBlacklist
	config      Config
	logger      arbor.ILogger
	recognizers []recognizer
}

// NewDriver creates a form-step driver
func NewDriver(
	session interfaces.BrowserSession,
	resolver interfaces.AnswerResolver,
	history interfaces.HistoryStore,
	sink interfaces.EventSink,
	pacer interfaces.Pacer,
	titles TitleBlacklist,
	config Config,
	logger arbor.ILogger,
) *Driver {
	if config.MaxStepAttempts <= 0 {
		config.MaxStepAttempts = 5
	}
	return &Driver{
		session:     session,
		resolver:    resolver,
		history:     history,
		sink:        sink,
		pacer:       pacer,
		titles:      titles,
		config:      config,
		logger:      logger,
		recognizers: stepRecognizers(),
	}
}

// Apply drives one candidate to a terminal state. The returned record is the
// outcome that was appended to the history store. A non-nil error means the
// browser session itself is unusable; the outcome is still recorded first.
func (d *Driver) Apply(ctx context.Context, candidate models.JobCandidate) (models.ApplicationRecord, error) {
	d.logger.Info().Str("job_id", candidate.ID).Msg("Attempting to apply to job")

	jobURL := fmt.Sprintf("%s/jobs/view/%s", strings.TrimRight(d.config.BaseURL, "/"), candidate.ID)
	if err := d.session.Navigate(ctx, jobURL); err != nil {
		record := d.record(ctx, candidate, "", "", models.ErrorResult(err))
		return record, fmt.Errorf("failed to load job page for %s: %w", candidate.ID, err)
	}
	d.pacer.Wait(ctx)

	pageTitle, err := d.session.Title(ctx)
	if err != nil {
		record := d.record(ctx, candidate, "", "", models.ErrorResult(err))
		return record, fmt.Errorf("failed to read job page title for %s: %w", candidate.ID, err)
	}
	jobTitle, company := SplitPageTitle(pageTitle)

	// Title blacklist is checked before even looking for the apply control
	if d.titles != nil && d.titles.BlacklistedTitle(jobTitle) {
		d.logger.Info().Str("job_title", jobTitle).Msg("Skipping blacklisted job title")
		return d.record(ctx, candidate, jobTitle, company, models.ResultBlacklistedTitle), nil
	}

	button, found := d.findEasyApplyButton(ctx)
	if !found {
		d.logger.Info().Str("job_id", candidate.ID).Msg("No Easy Apply button found")
		return d.record(ctx, candidate, jobTitle, company, models.ResultNoEasyApply), nil
	}

	if err := button.Click(ctx); err != nil {
		d.logger.Error().Err(err).Str("job_id", candidate.ID).Msg("Failed to click Easy Apply")
		return d.record(ctx, candidate, jobTitle, company, models.ResultClickFailed), nil
	}
	d.pacer.Wait(ctx)

	result := d.runSteps(ctx)
	record := d.record(ctx, candidate, jobTitle, company, result)

	if result != models.ResultApplied {
		d.dismissDialog(ctx)
	}

	return record, nil
}

// runSteps iterates the form-step state machine until a terminal state or
// budget exhaustion. Each iteration evaluates the control recognizers in
// fixed priority order; per-click and per-field failures never abort the
// machine, they only consume budget.
func (d *Driver) runSteps(ctx context.Context) string {
	for attempt := 1; attempt <= d.config.MaxStepAttempts; attempt++ {
		d.pacer.Wait(ctx)

		recognized := false
		for _, r := range d.recognizers {
			result := r.run(ctx, d)
			if result == stepNotPresent {
				continue
			}
			recognized = true
			if result == stepSubmitted {
				return models.ResultApplied
			}
			break
		}

		if !recognized {
			d.logger.Debug().Int("attempt", attempt).Msg("No recognizable control on current step")
		}
	}

	d.logger.Warn().Int("attempts", d.config.MaxStepAttempts).Msg("Max submission attempts reached")
	return models.ResultExhausted
}

// findEasyApplyButton locates the in-page apply control, distinguishing it
// from off-site apply buttons by its text.
func (d *Driver) findEasyApplyButton(ctx context.Context) (interfaces.Element, bool) {
	buttons, err := d.session.FindAll(ctx, selEasyApply)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Easy Apply button lookup failed")
		return nil, false
	}
	for _, button := range buttons {
		text, err := button.Text(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(text, easyApplyText) {
			return button, true
		}
	}
	return nil, false
}

// dismissDialog closes any open application dialog so a failed attempt does
// not affect the next one. Best effort.
func (d *Driver) dismissDialog(ctx context.Context) {
	dismiss, found, err := d.session.Find(ctx, selDismiss)
	if err != nil || !found {
		return
	}
	if err := dismiss.Click(ctx); err != nil {
		d.logger.Debug().Err(err).Msg("Failed to dismiss application dialog")
	}
}

// record appends the attempt's single outcome line and emits the completion
// event. Persistence failure is logged but never aborts the attempt: the
// in-memory outcome remains authoritative for this session.
func (d *Driver) record(ctx context.Context, candidate models.JobCandidate, jobTitle, company, result string) models.ApplicationRecord {
	if jobTitle == "" {
		jobTitle = "Unknown"
	}
	if company == "" {
		company = candidate.Company
	}
	if company == "" {
		company = "Unknown"
	}

	currentURL, err := d.session.CurrentURL(ctx)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to read current URL for record")
	}

	record := models.ApplicationRecord{
		Timestamp: time.Now(),
		JobID:     candidate.ID,
		JobTitle:  jobTitle,
		Company:   company,
		Attempted: result == models.ResultApplied,
		Result:    result,
		URL:       currentURL,
	}

	if err := d.history.Append(record); err != nil {
		d.logger.Error().Err(err).Str("job_id", candidate.ID).Msg("Failed to record application")
	}

	d.sink.Emit(models.Event{
		Type:  models.EventAttemptCompleted,
		JobID: candidate.ID,
		Fields: map[string]string{
			"result":    result,
			"job_title": jobTitle,
			"company":   company,
		},
		Timestamp: record.Timestamp,
	})

	return record
}

// SplitPageTitle extracts the job title and company from a page title of
// the form "Title | Company | Site". Company falls back to "Unknown".
func SplitPageTitle(pageTitle string) (jobTitle, company string) {
	parts := strings.Split(pageTitle, " | ")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(pageTitle), "Unknown"
}
