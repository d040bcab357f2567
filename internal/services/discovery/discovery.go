// -----------------------------------------------------------------------
// Listing Discovery - paginated easy-apply search and job-card extraction
// -----------------------------------------------------------------------

package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/interfaces"
	"github.com/ternarybob/peto/internal/models"
)

const (
	selResultsList = ".jobs-search-results-list"
	selJobCards    = "ul.jobs-search__results-list li"
	selCardCompany = ".base-search-card__subtitle"

	// resultsPerPage is the site's fixed page size for the start parameter
	resultsPerPage = 25
)

// Service discovers job candidates from the site's search results. It
// navigates paginated easy-apply searches, scrolls listings into view, and
// extracts candidate identifiers from the rendered list.
type Service struct {
	session          interfaces.BrowserSession
	pacer            interfaces.Pacer
	baseURL          string
	experienceLevels []int
	waitTimeout      time.Duration
	logger           arbor.ILogger
}

// New creates a discovery service
func New(session interfaces.BrowserSession, pacer interfaces.Pacer, baseURL string, experienceLevels []int, waitTimeout time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		session:          session,
		pacer:            pacer,
		baseURL:          strings.TrimRight(baseURL, "/"),
		experienceLevels: experienceLevels,
		waitTimeout:      waitTimeout,
		logger:           logger,
	}
}

// SearchURL builds the easy-apply-filtered search URL for one results page.
// Page numbering starts at 0.
func (s *Service) SearchURL(position, location string, page int) string {
	params := url.Values{}
	params.Set("f_LF", "f_AL") // Easy Apply listings only
	params.Set("keywords", position)
	params.Set("location", location)

	if len(s.experienceLevels) > 0 {
		levels := make([]string, len(s.experienceLevels))
		for i, level := range s.experienceLevels {
			levels[i] = strconv.Itoa(level)
		}
		params.Set("f_E", strings.Join(levels, ","))
	}

	if page > 0 {
		params.Set("start", strconv.Itoa(page*resultsPerPage))
	}

	return fmt.Sprintf("%s/jobs/search/?%s", s.baseURL, params.Encode())
}

// Search navigates to one results page and scrolls the listings into view
// so the site renders the full page of cards.
func (s *Service) Search(ctx context.Context, position, location string, page int) error {
	searchURL := s.SearchURL(position, location, page)
	s.logger.Info().Str("position", position).Str("location", location).Int("page", page).Msg("Searching for jobs")

	if err := s.session.Navigate(ctx, searchURL); err != nil {
		return fmt.Errorf("failed to load search page: %w", err)
	}
	s.pacer.Wait(ctx)

	if err := s.session.WaitVisible(ctx, selResultsList, s.waitTimeout); err != nil {
		s.logger.Warn().Err(err).Msg("Search results container not found, page may have a different structure")
	}

	// Gradual scroll so lazily-rendered cards load
	for y := 300; y < 3000; y += 300 {
		if err := s.session.ScrollTo(ctx, y); err != nil {
			s.logger.Debug().Err(err).Int("offset", y).Msg("Scroll failed")
			break
		}
		s.pacer.Wait(ctx)
	}

	return nil
}

// Candidates extracts job candidates from the rendered results page.
// Duplicate identifiers keep their first card; rows without an identifier
// are ignored.
func (s *Service) Candidates(ctx context.Context) ([]models.JobCandidate, error) {
	html, err := s.session.PageHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read search results page: %w", err)
	}
	return ParseCandidates(html)
}

// ParseCandidates extracts job candidates from search results HTML
func ParseCandidates(html string) ([]models.JobCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	seen := make(map[string]struct{})
	var candidates []models.JobCandidate

	doc.Find(selJobCards).Each(func(i int, card *goquery.Selection) {
		jobID, ok := card.Attr("data-job-id")
		if !ok || jobID == "" {
			return
		}
		if _, dup := seen[jobID]; dup {
			return
		}
		seen[jobID] = struct{}{}

		candidates = append(candidates, models.JobCandidate{
			ID:      jobID,
			Snippet: strings.TrimSpace(card.Text()),
			Company: strings.TrimSpace(card.Find(selCardCompany).First().Text()),
		})
	})

	return candidates, nil
}
