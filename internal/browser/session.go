// -----------------------------------------------------------------------
// Browser Session - chromedp-backed implementation of the page surface
// -----------------------------------------------------------------------

package browser

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/common"
	"github.com/ternarybob/peto/internal/interfaces"
)

// defaultUserAgents is the rotation pool used when the config does not
// provide its own list.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Session drives a single headless (or headed) Chrome instance through
// chromedp. It implements interfaces.BrowserSession.
type Session struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	actionTimeout time.Duration
	logger        arbor.ILogger
}

// NewSession launches a Chrome instance configured for automation work:
// automation fingerprints disabled and a user agent picked from the
// rotation pool.
func NewSession(ctx context.Context, config common.BrowserConfig, logger arbor.ILogger) (*Session, error) {
	agents := config.UserAgents
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	userAgent := agents[rand.Intn(len(agents))]

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)
	if config.Incognito {
		opts = append(opts, chromedp.Flag("incognito", true))
	}
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	session := &Session{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		actionTimeout: config.WaitTimeout.Duration(),
		logger:        logger,
	}
	if session.actionTimeout <= 0 {
		session.actionTimeout = 30 * time.Second
	}

	// Force the browser process to start now so launch failures surface
	// here rather than on the first navigation.
	if err := session.run(chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Info().
		Str("user_agent", userAgent).
		Bool("headless", config.Headless).
		Msg("Browser session started")

	return session, nil
}

// run executes chromedp actions against the session with the action timeout
// applied.
func (s *Session) run(actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.browserCtx, s.actionTimeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the given URL and waits for the page load to settle
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.run(chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Title returns the current document title
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// CurrentURL returns the current document location
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var location string
	if err := s.run(chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("failed to read page location: %w", err)
	}
	return location, nil
}

// Find returns the first element matching the CSS selector. Absence is not
// an error: the boolean reports whether a match exists.
func (s *Session) Find(ctx context.Context, selector string) (interfaces.Element, bool, error) {
	nodes, err := s.queryNodes(selector, nil)
	if err != nil {
		return nil, false, err
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return &element{session: s, node: nodes[0]}, true, nil
}

// FindAll returns every element matching the CSS selector, possibly empty
func (s *Session) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	nodes, err := s.queryNodes(selector, nil)
	if err != nil {
		return nil, err
	}
	elements := make([]interfaces.Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &element{session: s, node: node})
	}
	return elements, nil
}

// WaitVisible blocks until the selector is visible or the timeout elapses
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("element %s not visible within %s: %w", selector, timeout, err)
	}
	return nil
}

// PageHTML returns the full serialized document
func (s *Session) PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %w", err)
	}
	return html, nil
}

// ScrollTo scrolls the window to the given vertical offset
func (s *Session) ScrollTo(ctx context.Context, y int) error {
	script := fmt.Sprintf("window.scrollTo(0, %d)", y)
	if err := s.run(chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// Close tears down the browser process. Safe to call once per session.
func (s *Session) Close() error {
	s.browserCancel()
	s.allocCancel()
	s.logger.Debug().Msg("Browser session closed")
	return nil
}

// queryNodes resolves a CSS selector to DOM nodes, scoped to fromNode when
// given. AtLeast(0) keeps "no match" from blocking until timeout... the
// timeout still applies while the page is mid-load.
func (s *Session) queryNodes(selector string, fromNode *cdp.Node) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if fromNode != nil {
		opts = append(opts, chromedp.FromNode(fromNode))
	}
	if err := s.run(chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %s failed: %w", selector, err)
	}
	return nodes, nil
}
