// -----------------------------------------------------------------------
// Application - wires the services together and runs one session
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/browser"
	"github.com/ternarybob/peto/internal/common"
	"github.com/ternarybob/peto/internal/events"
	"github.com/ternarybob/peto/internal/interfaces"
	"github.com/ternarybob/peto/internal/models"
	"github.com/ternarybob/peto/internal/services/answers"
	"github.com/ternarybob/peto/internal/services/apply"
	"github.com/ternarybob/peto/internal/services/auth"
	"github.com/ternarybob/peto/internal/services/capture"
	"github.com/ternarybob/peto/internal/services/discovery"
	"github.com/ternarybob/peto/internal/services/filter"
	"github.com/ternarybob/peto/internal/services/session"
	"github.com/ternarybob/peto/internal/storage/csvstore"
)

// App owns one application session: one browser, one governor, one sweep
// over the configured searches. Scheduled operation creates a fresh App per
// run.
type App struct {
	config    *common.Config
	logger    arbor.ILogger
	sessionID string

	session   interfaces.BrowserSession
	sink      interfaces.EventSink
	pacer     interfaces.Pacer
	auth      *auth.Service
	discovery *discovery.Service
	filter    *filter.Filter
	governor  *session.Governor
	driver    *apply.Driver
	capture   *capture.Service
}

// New builds a fully wired application session, launching the browser
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (*App, error) {
	sessionID := uuid.New().String()
	logger = logger.WithCorrelationId(sessionID)

	browserSession, err := browser.NewSession(ctx, config.Browser, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser session: %w", err)
	}

	app, err := newWithSession(config, logger, sessionID, browserSession)
	if err != nil {
		browserSession.Close()
		return nil, err
	}
	return app, nil
}

// newWithSession wires the services around an existing browser session.
// Split out so tests can inject a scripted session.
func newWithSession(config *common.Config, logger arbor.ILogger, sessionID string, browserSession interfaces.BrowserSession) (*App, error) {
	sink := events.WithSession(events.NewLogSink(logger), sessionID)
	pacer := common.NewPacer(config.Browser.MinDelay.Duration(), config.Browser.MaxDelay.Duration())

	historyStore := csvstore.NewHistoryStore(config.Storage.HistoryFile, logger)
	knowledgeStore := csvstore.NewKnowledgeStore(config.Storage.KnowledgeFile, logger)

	var rules []answers.Rule
	if config.Storage.RulesFile != "" {
		userRules, err := answers.LoadUserRules(config.Storage.RulesFile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load answer rules: %w", err)
		}
		rules = userRules
	}
	rules = append(rules, answers.BuiltinRules(config.Profile)...)

	resolver, err := answers.NewResolver(knowledgeStore, rules, sink, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize answer resolver: %w", err)
	}

	recent, err := historyStore.RecentJobIDs(config.Session.RecencyWindow.Duration())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load recent application history, continuing without it")
		recent = map[string]struct{}{}
	}
	candidateFilter := filter.New(config.Blacklist, recent, logger)

	governor := session.NewGovernor(config.Session.MaxApplications, config.Session.MaxDuration.Duration(), logger)

	driver := apply.NewDriver(browserSession, resolver, historyStore, sink, pacer, candidateFilter, apply.Config{
		BaseURL:         config.Site.BaseURL,
		PhoneNumber:     config.Profile.PhoneNumber,
		Uploads:         config.Uploads,
		MaxStepAttempts: config.Session.MaxStepAttempts,
	}, logger)

	app := &App{
		config:    config,
		logger:    logger,
		sessionID: sessionID,
		session:   browserSession,
		sink:      sink,
		pacer:     pacer,
		auth:      auth.New(browserSession, pacer, config.Site.BaseURL, config.Browser.WaitTimeout.Duration(), logger),
		discovery: discovery.New(browserSession, pacer, config.Site.BaseURL, config.Search.ExperienceLevels, config.Browser.WaitTimeout.Duration(), logger),
		filter:    candidateFilter,
		governor:  governor,
		driver:    driver,
	}
	if config.Storage.DescriptionsDir != "" {
		app.capture = capture.New(browserSession, config.Storage.DescriptionsDir, logger)
	}
	return app, nil
}

// SessionID returns the correlation ID for this session
func (a *App) SessionID() string {
	return a.sessionID
}

// Run executes the full session: login, then sweep every configured
// position/location/page combination until the governor stops the session
// or the sweep is exhausted. The browser is always torn down on return.
func (a *App) Run(ctx context.Context) error {
	defer a.session.Close()

	a.logger.Info().
		Str("session_id", a.sessionID).
		Int("max_applications", a.config.Session.MaxApplications).
		Msg("Starting application session")

	if err := a.auth.Login(ctx, a.config.Credentials); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var runErr error

sweep:
	for _, position := range a.config.Search.Positions {
		for _, location := range a.config.Search.Locations {
			for page := 0; page < a.config.Search.Pages; page++ {
				if err := ctx.Err(); err != nil {
					runErr = err
					break sweep
				}
				if !a.governor.Allow() {
					break sweep
				}

				if err := a.discovery.Search(ctx, position, location, page); err != nil {
					a.logger.Warn().Err(err).
						Str("position", position).
						Str("location", location).
						Int("page", page).
						Msg("Search page failed, moving on")
					continue
				}

				candidates, err := a.discovery.Candidates(ctx)
				if err != nil {
					a.logger.Warn().Err(err).Msg("Failed to extract candidates from results page")
					continue
				}

				stop, err := a.processCandidates(ctx, candidates)
				if err != nil {
					runErr = err
					break sweep
				}
				if stop {
					break sweep
				}
			}
		}
	}

	a.sink.Emit(models.Event{
		Type: models.EventSessionStopped,
		Fields: map[string]string{
			"submitted": fmt.Sprintf("%d", a.governor.Submitted()),
			"elapsed":   a.governor.Elapsed().Round(time.Second).String(),
		},
	})
	a.logger.Info().
		Int("submitted", a.governor.Submitted()).
		Str("elapsed", a.governor.Elapsed().Round(time.Second).String()).
		Msg("Application session finished")

	return runErr
}

// processCandidates walks one results page worth of candidates. A true stop
// flag means the governor ended the session; a non-nil error means the
// browser session is no longer usable.
func (a *App) processCandidates(ctx context.Context, candidates []models.JobCandidate) (bool, error) {
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		if !a.governor.Allow() {
			return true, nil
		}

		if reason, ok := a.filter.Check(candidate); !ok {
			a.logger.Debug().
				Str("job_id", candidate.ID).
				Str("reason", reason).
				Msg("Skipping candidate")
			a.sink.Emit(models.Event{
				Type:   models.EventCandidateRejected,
				JobID:  candidate.ID,
				Fields: map[string]string{"reason": reason},
			})
			continue
		}

		record, err := a.driver.Apply(ctx, candidate)
		if record.Submitted() {
			a.governor.RecordSubmission()
			a.filter.MarkApplied(candidate.ID)
			if a.capture != nil {
				a.capture.Snapshot(ctx, candidate.ID)
			}
		}
		if err != nil {
			return true, fmt.Errorf("application attempt for %s failed: %w", candidate.ID, err)
		}

		a.pacer.Wait(ctx)
	}
	return false, nil
}
