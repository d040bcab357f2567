package discovery

import (
	"strings"
	"testing"

	"github.com/ternarybob/peto/internal/common"
)

func TestSearchURL(t *testing.T) {
	service := New(nil, nil, "https://www.linkedin.com/", []int{2, 3}, 0, common.GetLogger())

	got := service.SearchURL("Backend Engineer", "New York, NY", 0)

	if !strings.HasPrefix(got, "https://www.linkedin.com/jobs/search/?") {
		t.Fatalf("unexpected URL prefix: %s", got)
	}
	for _, fragment := range []string{
		"f_LF=f_AL",
		"keywords=Backend+Engineer",
		"location=New+York%2C+NY",
		"f_E=2%2C3",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("URL missing %q: %s", fragment, got)
		}
	}
	if strings.Contains(got, "start=") {
		t.Errorf("page 0 must not carry a start offset: %s", got)
	}

	paged := service.SearchURL("Backend Engineer", "New York, NY", 2)
	if !strings.Contains(paged, "start=50") {
		t.Errorf("page 2 should start at offset 50: %s", paged)
	}
}

func TestSearchURLWithoutExperienceLevels(t *testing.T) {
	service := New(nil, nil, "https://www.linkedin.com", nil, 0, common.GetLogger())

	got := service.SearchURL("Engineer", "Remote", 0)
	if strings.Contains(got, "f_E=") {
		t.Errorf("empty experience levels must omit f_E: %s", got)
	}
}

const resultsFixture = `
<html><body>
<ul class="jobs-search__results-list">
  <li data-job-id="4011223344">
    <span class="sr-only">Backend Engineer</span>
    <h4 class="base-search-card__subtitle">Acme Corp</h4>
    <span>Remote</span>
  </li>
  <li data-job-id="4055667788">
    <span class="sr-only">Data Engineer</span>
    <h4 class="base-search-card__subtitle">Globex</h4>
  </li>
  <li data-job-id="4011223344">
    <span class="sr-only">Backend Engineer (duplicate card)</span>
  </li>
  <li>
    <span>Promoted content without a job id</span>
  </li>
</ul>
</body></html>`

func TestParseCandidates(t *testing.T) {
	candidates, err := ParseCandidates(resultsFixture)
	if err != nil {
		t.Fatalf("ParseCandidates failed: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 unique candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.ID != "4011223344" {
		t.Errorf("unexpected first ID: %s", first.ID)
	}
	if !strings.Contains(first.Snippet, "Backend Engineer") || !strings.Contains(first.Snippet, "Acme Corp") {
		t.Errorf("snippet missing card text: %q", first.Snippet)
	}
	if first.Company != "Acme Corp" {
		t.Errorf("unexpected company: %q", first.Company)
	}

	if candidates[1].ID != "4055667788" || candidates[1].Company != "Globex" {
		t.Errorf("unexpected second candidate: %+v", candidates[1])
	}
}

func TestParseCandidatesEmptyPage(t *testing.T) {
	candidates, err := ParseCandidates("<html><body><p>No results</p></body></html>")
	if err != nil {
		t.Fatalf("ParseCandidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
