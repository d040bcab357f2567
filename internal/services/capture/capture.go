// -----------------------------------------------------------------------
// Description Capture - markdown snapshots of applied job descriptions
// -----------------------------------------------------------------------

package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/interfaces"
)

const selDescription = ".jobs-description"

// Service snapshots the job description of submitted applications as
// markdown, one file per job, for later review. Everything here is best
// effort: a failed snapshot never affects the attempt's outcome.
type Service struct {
	session   interfaces.BrowserSession
	converter *md.Converter
	dir       string
	logger    arbor.ILogger
}

// New creates a capture service writing snapshots under dir
func New(session interfaces.BrowserSession, dir string, logger arbor.ILogger) *Service {
	return &Service{
		session:   session,
		converter: md.NewConverter("", true, nil),
		dir:       dir,
		logger:    logger,
	}
}

// Snapshot writes the current job page's description to <dir>/<jobID>.md
func (s *Service) Snapshot(ctx context.Context, jobID string) {
	html, err := s.session.PageHTML(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Str("job_id", jobID).Msg("Failed to read page for description snapshot")
		return
	}

	markdown, err := s.descriptionMarkdown(html)
	if err != nil {
		s.logger.Debug().Err(err).Str("job_id", jobID).Msg("Failed to extract job description")
		return
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("Failed to create descriptions directory")
		return
	}

	path := filepath.Join(s.dir, jobID+".md")
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to write description snapshot")
		return
	}

	s.logger.Debug().Str("path", path).Msg("Saved job description snapshot")
}

func (s *Service) descriptionMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse job page: %w", err)
	}

	description := doc.Find(selDescription).First()
	if description.Length() == 0 {
		return "", fmt.Errorf("no description section on page")
	}

	descHTML, err := goquery.OuterHtml(description)
	if err != nil {
		return "", fmt.Errorf("failed to serialize description: %w", err)
	}

	markdown, err := s.converter.ConvertString(descHTML)
	if err != nil {
		return "", fmt.Errorf("failed to convert description to markdown: %w", err)
	}

	return markdown, nil
}
