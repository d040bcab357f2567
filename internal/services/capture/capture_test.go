package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/peto/internal/common"
	"github.com/ternarybob/peto/internal/interfaces"
)

// pageSession serves a fixed rendered document
type pageSession struct {
	html    string
	htmlErr error
}

func (s *pageSession) Navigate(ctx context.Context, url string) error { return nil }

func (s *pageSession) Title(ctx context.Context) (string, error) { return "", nil }

func (s *pageSession) CurrentURL(ctx context.Context) (string, error) { return "", nil }

func (s *pageSession) Find(ctx context.Context, selector string) (interfaces.Element, bool, error) {
	return nil, false, nil
}

func (s *pageSession) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	return nil, nil
}

func (s *pageSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (s *pageSession) PageHTML(ctx context.Context) (string, error) { return s.html, s.htmlErr }

func (s *pageSession) ScrollTo(ctx context.Context, y int) error { return nil }

func (s *pageSession) Close() error { return nil }

const jobPage = `<html><body>
<header>Jobs you may like</header>
<div class="jobs-description">
  <h2>About the role</h2>
  <p>We build <strong>backend services</strong> in Go.</p>
</div>
<footer>Unrelated page chrome</footer>
</body></html>`

func TestSnapshotWritesDescriptionMarkdown(t *testing.T) {
	dir := t.TempDir()
	service := New(&pageSession{html: jobPage}, dir, common.GetLogger())

	service.Snapshot(context.Background(), "4011223344")

	content, err := os.ReadFile(filepath.Join(dir, "4011223344.md"))
	if err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	markdown := string(content)
	if !strings.Contains(markdown, "About the role") {
		t.Errorf("expected heading in markdown, got %q", markdown)
	}
	if !strings.Contains(markdown, "**backend services**") {
		t.Errorf("expected bold markdown, got %q", markdown)
	}
	if strings.Contains(markdown, "Unrelated page chrome") {
		t.Errorf("page chrome outside the description leaked into %q", markdown)
	}
	if strings.Contains(markdown, "<p>") {
		t.Errorf("raw HTML leaked into %q", markdown)
	}
}

func TestSnapshotWithoutDescriptionWritesNothing(t *testing.T) {
	dir := t.TempDir()
	session := &pageSession{html: "<html><body><p>No description here</p></body></html>"}
	service := New(session, dir, common.GetLogger())

	service.Snapshot(context.Background(), "1")

	if _, err := os.Stat(filepath.Join(dir, "1.md")); !os.IsNotExist(err) {
		t.Errorf("expected no snapshot file, stat err: %v", err)
	}
}

func TestSnapshotPageReadFailureIsSilent(t *testing.T) {
	dir := t.TempDir()
	session := &pageSession{htmlErr: errors.New("browser gone")}
	service := New(session, dir, common.GetLogger())

	// Best effort: nothing written, nothing panics
	service.Snapshot(context.Background(), "2")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty snapshot dir, got %v", entries)
	}
}
