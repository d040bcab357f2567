package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Duration wraps time.Duration so config files can carry human-readable
// values ("30m", "48h"). go-toml decodes through encoding.TextUnmarshaler;
// a bare time.Duration field would only accept integer nanoseconds.
type Duration time.Duration

// UnmarshalText parses a duration string like "2s" or "1h30m"
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration in time.Duration's string form
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Duration returns the wrapped time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Schedule    string            `toml:"schedule"`    // Optional cron schedule for repeated sessions (empty = single run)
	Site        SiteConfig        `toml:"site"`
	Credentials CredentialsConfig `toml:"credentials"`
	Profile     ProfileConfig     `toml:"profile"`
	Uploads     map[string]string `toml:"uploads"` // Document kind -> file path ("resume", "cover_letter")
	Search      SearchConfig      `toml:"search"`
	Blacklist   BlacklistConfig   `toml:"blacklist"`
	Session     SessionConfig     `toml:"session"`
	Browser     BrowserConfig     `toml:"browser"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
}

// SiteConfig identifies the target site endpoints
type SiteConfig struct {
	BaseURL string `toml:"base_url" validate:"required,url"` // e.g. "https://www.linkedin.com"
}

// CredentialsConfig holds login credentials. Normally supplied via .env or
// environment variables rather than the config file.
type CredentialsConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// ProfileConfig holds applicant details used to answer form questions
type ProfileConfig struct {
	PhoneNumber     string `toml:"phone_number"`
	Salary          string `toml:"salary"`           // e.g. "100000"; empty means "Negotiable"
	Rate            string `toml:"rate"`             // e.g. "per year"
	ExperienceYears string `toml:"experience_years"` // Default answer for years-of-experience questions
	Degree          string `toml:"degree"`           // Default answer for education questions
}

// SearchConfig defines the discovery sweep
type SearchConfig struct {
	Positions        []string `toml:"positions" validate:"min=1"`
	Locations        []string `toml:"locations" validate:"min=1"`
	ExperienceLevels []int    `toml:"experience_levels"`      // Site experience-level filter codes
	Pages            int      `toml:"pages" validate:"min=1"` // Result pages per position/location pair
}

// BlacklistConfig lists exclusion rules applied before an attempt starts
type BlacklistConfig struct {
	Companies []string `toml:"companies"` // Case-sensitive substrings matched against listing snippets
	Titles    []string `toml:"titles"`    // Case-insensitive substrings matched against job titles
}

// SessionConfig bounds a single application session
type SessionConfig struct {
	MaxApplications int      `toml:"max_applications" validate:"min=1"`
	MaxDuration     Duration `toml:"max_duration"`                       // Wall-clock session budget
	RecencyWindow   Duration `toml:"recency_window"`                     // Past attempts inside this window suppress repeats
	MaxStepAttempts int      `toml:"max_step_attempts" validate:"min=1"` // Form-step iteration budget per application
}

// BrowserConfig controls the chromedp session
type BrowserConfig struct {
	Headless    bool     `toml:"headless"`
	Incognito   bool     `toml:"incognito"`
	NoSandbox   bool     `toml:"no_sandbox"`
	UserAgents  []string `toml:"user_agents"`  // Rotated at session start; defaults applied when empty
	WaitTimeout Duration `toml:"wait_timeout"` // Bounded element-appearance wait
	MinDelay    Duration `toml:"min_delay"`    // Think-time floor between actions
	MaxDelay    Duration `toml:"max_delay"`    // Think-time ceiling between actions
}

// StorageConfig locates the persisted stores
type StorageConfig struct {
	HistoryFile     string `toml:"history_file" validate:"required"`
	KnowledgeFile   string `toml:"knowledge_file" validate:"required"`
	RulesFile       string `toml:"rules_file"`       // Optional YAML answer-rule overrides
	DescriptionsDir string `toml:"descriptions_dir"` // Job description snapshots (empty = disabled)
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in peto.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Site: SiteConfig{
			BaseURL: "https://www.linkedin.com",
		},
		Profile: ProfileConfig{
			ExperienceYears: "3",
			Degree:          "Bachelor's degree",
		},
		Uploads: map[string]string{},
		Search: SearchConfig{
			Positions: []string{"Software Engineer"},
			Locations: []string{"Remote"},
			Pages:     3,
		},
		Session: SessionConfig{
			MaxApplications: 10,
			MaxDuration:     Duration(time.Hour),
			RecencyWindow:   Duration(48 * time.Hour),
			MaxStepAttempts: 5,
		},
		Browser: BrowserConfig{
			Headless:    false, // Non-headless is less detectable
			Incognito:   false,
			NoSandbox:   true,
			WaitTimeout: Duration(30 * time.Second),
			MinDelay:    Duration(2 * time.Second),
			MaxDelay:    Duration(5 * time.Second),
		},
		Storage: StorageConfig{
			HistoryFile:     "./data/applications.csv",
			KnowledgeFile:   "./data/qa.csv",
			DescriptionsDir: "./data/descriptions",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Credential variables keep the names the original .env files used.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PETO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Credentials (loaded from .env by the CLI before config loading)
	if username := os.Getenv("LINKEDIN_USERNAME"); username != "" {
		config.Credentials.Username = username
	}
	if password := os.Getenv("LINKEDIN_PASSWORD"); password != "" {
		config.Credentials.Password = password
	}
	if phone := os.Getenv("PHONE_NUMBER"); phone != "" {
		config.Profile.PhoneNumber = phone
	}

	// Session configuration
	if maxApps := os.Getenv("PETO_MAX_APPLICATIONS"); maxApps != "" {
		if m, err := strconv.Atoi(maxApps); err == nil {
			config.Session.MaxApplications = m
		}
	}
	if maxDuration := os.Getenv("PETO_MAX_DURATION"); maxDuration != "" {
		if d, err := time.ParseDuration(maxDuration); err == nil {
			config.Session.MaxDuration = Duration(d)
		}
	}
	if window := os.Getenv("PETO_RECENCY_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			config.Session.RecencyWindow = Duration(d)
		}
	}

	// Browser configuration
	if headless := os.Getenv("PETO_BROWSER_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = h
		}
	}
	if incognito := os.Getenv("PETO_BROWSER_INCOGNITO"); incognito != "" {
		if i, err := strconv.ParseBool(incognito); err == nil {
			config.Browser.Incognito = i
		}
	}

	// Storage configuration
	if historyFile := os.Getenv("PETO_HISTORY_FILE"); historyFile != "" {
		config.Storage.HistoryFile = historyFile
	}
	if knowledgeFile := os.Getenv("PETO_KNOWLEDGE_FILE"); knowledgeFile != "" {
		config.Storage.KnowledgeFile = knowledgeFile
	}

	// Logging configuration
	if level := os.Getenv("PETO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PETO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, maxApplications int, headless bool, headlessSet bool) {
	if maxApplications > 0 {
		config.Session.MaxApplications = maxApplications
	}
	if headlessSet {
		config.Browser.Headless = headless
	}
}

// Validate checks the configuration against struct-level validation rules
// and the cross-field constraints the validator cannot express.
func Validate(config *Config) error {
	v := validator.New()
	if err := v.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Browser.MaxDelay < config.Browser.MinDelay {
		return fmt.Errorf("invalid configuration: browser.max_delay (%s) is below browser.min_delay (%s)",
			config.Browser.MaxDelay, config.Browser.MinDelay)
	}

	for kind, path := range config.Uploads {
		if kind != "resume" && kind != "cover_letter" {
			return fmt.Errorf("invalid configuration: unknown upload kind %q", kind)
		}
		if path == "" {
			return fmt.Errorf("invalid configuration: upload %q has empty path", kind)
		}
	}

	if config.Schedule != "" {
		if err := ValidateSchedule(config.Schedule); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSchedule validates a cron schedule expression
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
