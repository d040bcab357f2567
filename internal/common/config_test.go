package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Session.MaxApplications != 10 {
		t.Errorf("expected default max_applications 10, got %d", config.Session.MaxApplications)
	}
	if config.Session.RecencyWindow.Duration() != 48*time.Hour {
		t.Errorf("expected default recency_window 48h, got %s", config.Session.RecencyWindow)
	}
	if config.Session.MaxStepAttempts != 5 {
		t.Errorf("expected default max_step_attempts 5, got %d", config.Session.MaxStepAttempts)
	}
	if config.Site.BaseURL != "https://www.linkedin.com" {
		t.Errorf("unexpected default base URL: %s", config.Site.BaseURL)
	}
	if config.Browser.MinDelay.Duration() != 2*time.Second || config.Browser.MaxDelay.Duration() != 5*time.Second {
		t.Errorf("unexpected default delays: %s..%s", config.Browser.MinDelay, config.Browser.MaxDelay)
	}
	if err := Validate(config); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peto.toml")
	content := `
environment = "production"

[search]
positions = ["Backend Engineer"]
locations = ["Berlin"]
pages = 2

[session]
max_applications = 3
max_duration = "30m"

[browser]
headless = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if !config.IsProduction() {
		t.Error("expected production environment")
	}
	if config.Session.MaxApplications != 3 {
		t.Errorf("expected max_applications 3, got %d", config.Session.MaxApplications)
	}
	if config.Session.MaxDuration.Duration() != 30*time.Minute {
		t.Errorf("expected max_duration 30m, got %s", config.Session.MaxDuration)
	}
	if !config.Browser.Headless {
		t.Error("expected headless true")
	}
	// Untouched settings keep their defaults
	if config.Session.RecencyWindow.Duration() != 48*time.Hour {
		t.Errorf("expected default recency_window to survive, got %s", config.Session.RecencyWindow)
	}
	if len(config.Search.Positions) != 1 || config.Search.Positions[0] != "Backend Engineer" {
		t.Errorf("unexpected positions: %v", config.Search.Positions)
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	tests := []struct {
		text    string
		want    time.Duration
		wantErr bool
	}{
		{text: "1h", want: time.Hour},
		{text: "48h", want: 48 * time.Hour},
		{text: "90m", want: 90 * time.Minute},
		{text: "2s", want: 2 * time.Second},
		{text: "1h30m", want: 90 * time.Minute},
		{text: "soon", wantErr: true},
		{text: "", wantErr: true},
	}

	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalText([]byte(tt.text))
		if tt.wantErr {
			if err == nil {
				t.Errorf("UnmarshalText(%q) expected error, got %s", tt.text, d)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q) failed: %v", tt.text, err)
			continue
		}
		if d.Duration() != tt.want {
			t.Errorf("UnmarshalText(%q) = %s, want %s", tt.text, d, tt.want)
		}
	}
}

func TestLoadFromFilesLaterOverridesEarlier(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	if err := os.WriteFile(base, []byte("[session]\nmax_applications = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(override, []byte("[session]\nmax_applications = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if config.Session.MaxApplications != 7 {
		t.Errorf("expected later file to win, got %d", config.Session.MaxApplications)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LINKEDIN_USERNAME", "user@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "hunter2")
	t.Setenv("PHONE_NUMBER", "5551234567")
	t.Setenv("PETO_MAX_APPLICATIONS", "2")
	t.Setenv("PETO_BROWSER_HEADLESS", "true")
	t.Setenv("PETO_LOG_LEVEL", "debug")

	config, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if config.Credentials.Username != "user@example.com" {
		t.Errorf("username env override not applied: %q", config.Credentials.Username)
	}
	if config.Credentials.Password != "hunter2" {
		t.Error("password env override not applied")
	}
	if config.Profile.PhoneNumber != "5551234567" {
		t.Errorf("phone number env override not applied: %q", config.Profile.PhoneNumber)
	}
	if config.Session.MaxApplications != 2 {
		t.Errorf("max applications env override not applied: %d", config.Session.MaxApplications)
	}
	if !config.Browser.Headless {
		t.Error("headless env override not applied")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("log level env override not applied: %q", config.Logging.Level)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 4, true, true)
	if config.Session.MaxApplications != 4 {
		t.Errorf("expected max_applications 4, got %d", config.Session.MaxApplications)
	}
	if !config.Browser.Headless {
		t.Error("expected headless override applied")
	}

	// Unset flags leave config untouched
	ApplyFlagOverrides(config, 0, false, false)
	if config.Session.MaxApplications != 4 {
		t.Error("zero max flag should not override")
	}
	if !config.Browser.Headless {
		t.Error("unset headless flag should not override")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "max delay below min delay",
			mutate: func(c *Config) { c.Browser.MaxDelay = Duration(time.Second); c.Browser.MinDelay = Duration(2 * time.Second) },
		},
		{
			name:   "zero max applications",
			mutate: func(c *Config) { c.Session.MaxApplications = 0 },
		},
		{
			name:   "unknown upload kind",
			mutate: func(c *Config) { c.Uploads["portfolio"] = "/tmp/p.pdf" },
		},
		{
			name:   "empty upload path",
			mutate: func(c *Config) { c.Uploads["resume"] = "" },
		},
		{
			name:   "invalid base url",
			mutate: func(c *Config) { c.Site.BaseURL = "not-a-url" },
		},
		{
			name:   "invalid schedule",
			mutate: func(c *Config) { c.Schedule = "every tuesday" },
		},
		{
			name:   "no positions",
			mutate: func(c *Config) { c.Search.Positions = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			if err := Validate(config); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	if err := ValidateSchedule("0 9 * * 1-5"); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
	if err := ValidateSchedule("not a schedule"); err == nil {
		t.Error("invalid schedule accepted")
	}
}
