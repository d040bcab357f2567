// -----------------------------------------------------------------------
// Authentication - fixed field-fill-and-click login sequence
// -----------------------------------------------------------------------

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/common"
	"github.com/ternarybob/peto/internal/interfaces"
)

const (
	selUsername = "#username"
	selPassword = "#password"
	selSubmit   = "button[type='submit']"

	// settleTime allows post-login redirects to complete
	settleTime = 5 * time.Second
)

// Service performs the site login flow
type Service struct {
	session     interfaces.BrowserSession
	pacer       interfaces.Pacer
	baseURL     string
	waitTimeout time.Duration
	settle      time.Duration
	logger      arbor.ILogger
}

// New creates an authentication service
func New(session interfaces.BrowserSession, pacer interfaces.Pacer, baseURL string, waitTimeout time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		session:     session,
		pacer:       pacer,
		baseURL:     strings.TrimRight(baseURL, "/"),
		waitTimeout: waitTimeout,
		settle:      settleTime,
		logger:      logger,
	}
}

// Login signs in with the given credentials. Any failure here is fatal to
// the session: nothing else can proceed unauthenticated.
func (s *Service) Login(ctx context.Context, credentials common.CredentialsConfig) error {
	if credentials.Username == "" || credentials.Password == "" {
		return fmt.Errorf("login credentials not configured")
	}

	s.logger.Info().Msg("Logging in")

	if err := s.session.Navigate(ctx, s.baseURL+"/login"); err != nil {
		return fmt.Errorf("failed to load login page: %w", err)
	}

	if err := s.session.WaitVisible(ctx, selUsername, s.waitTimeout); err != nil {
		return fmt.Errorf("login form did not appear: %w", err)
	}

	if err := s.fill(ctx, selUsername, credentials.Username); err != nil {
		return fmt.Errorf("failed to enter username: %w", err)
	}
	s.pacer.Wait(ctx)

	if err := s.fill(ctx, selPassword, credentials.Password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}
	s.pacer.Wait(ctx)

	button, found, err := s.session.Find(ctx, selSubmit)
	if err != nil || !found {
		return fmt.Errorf("login button not found")
	}
	if err := button.Click(ctx); err != nil {
		return fmt.Errorf("failed to click login button: %w", err)
	}

	// Let the post-login redirect settle
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.settle):
	}

	s.logger.Info().Msg("Login successful")
	return nil
}

func (s *Service) fill(ctx context.Context, selector, value string) error {
	field, found, err := s.session.Find(ctx, selector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("element %s not found", selector)
	}
	return field.Fill(ctx, value)
}
