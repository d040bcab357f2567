package filter

import (
	"testing"

	"github.com/ternarybob/peto/internal/common"
	"github.com/ternarybob/peto/internal/models"
)

func TestCheckRejections(t *testing.T) {
	filter := New(common.BlacklistConfig{
		Companies: []string{"Initech", "Globex"},
	}, map[string]struct{}{"4001": {}}, common.GetLogger())

	tests := []struct {
		name      string
		candidate models.JobCandidate
		reason    string
	}{
		{
			name:      "applied marker in snippet",
			candidate: models.JobCandidate{ID: "1", Snippet: "Backend Engineer\nAcme\nApplied 2 days ago"},
			reason:    ReasonAlreadyApplied,
		},
		{
			name:      "blacklisted company substring",
			candidate: models.JobCandidate{ID: "2", Snippet: "Platform Engineer\nGlobex Corporation\nRemote"},
			reason:    ReasonBlacklistedCompany,
		},
		{
			name:      "sentinel search row",
			candidate: models.JobCandidate{ID: models.SentinelJobID, Snippet: "See more jobs"},
			reason:    ReasonSentinelID,
		},
		{
			name:      "recently applied",
			candidate: models.JobCandidate{ID: "4001", Snippet: "Backend Engineer\nAcme"},
			reason:    ReasonRecentlyApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := filter.Check(tt.candidate)
			if ok {
				t.Fatal("expected rejection")
			}
			if reason != tt.reason {
				t.Errorf("got reason %q, want %q", reason, tt.reason)
			}
		})
	}
}

func TestCheckAcceptsCleanCandidate(t *testing.T) {
	filter := New(common.BlacklistConfig{Companies: []string{"Initech"}}, nil, common.GetLogger())

	reason, ok := filter.Check(models.JobCandidate{ID: "5", Snippet: "Backend Engineer\nAcme\nRemote"})
	if !ok {
		t.Errorf("expected acceptance, got rejection: %s", reason)
	}
}

func TestCompanyMatchIsCaseSensitive(t *testing.T) {
	filter := New(common.BlacklistConfig{Companies: []string{"Initech"}}, nil, common.GetLogger())

	// Blacklist entries match as authored; a lowercase variant is a
	// different company string.
	if _, ok := filter.Check(models.JobCandidate{ID: "6", Snippet: "Engineer at initech"}); !ok {
		t.Error("lowercase variant should not match a case-sensitive entry")
	}
}

func TestBlacklistedTitle(t *testing.T) {
	filter := New(common.BlacklistConfig{Titles: []string{"Senior", "Staff"}}, nil, common.GetLogger())

	if !filter.BlacklistedTitle("SENIOR Backend Engineer") {
		t.Error("title match should be case-insensitive")
	}
	if !filter.BlacklistedTitle("Staff Software Engineer") {
		t.Error("expected staff title rejected")
	}
	if filter.BlacklistedTitle("Backend Engineer") {
		t.Error("clean title must pass")
	}
}

func TestMarkApplied(t *testing.T) {
	filter := New(common.BlacklistConfig{}, nil, common.GetLogger())
	candidate := models.JobCandidate{ID: "7", Snippet: "Engineer\nAcme"}

	if _, ok := filter.Check(candidate); !ok {
		t.Fatal("candidate should pass before being marked")
	}

	filter.MarkApplied("7")

	reason, ok := filter.Check(candidate)
	if ok {
		t.Fatal("marked candidate must be rejected on re-encounter")
	}
	if reason != ReasonRecentlyApplied {
		t.Errorf("got reason %q, want %q", reason, ReasonRecentlyApplied)
	}
}
