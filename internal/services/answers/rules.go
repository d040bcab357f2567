// -----------------------------------------------------------------------
// Heuristic answer rules - ordered, first match wins
// -----------------------------------------------------------------------

package answers

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/peto/internal/common"
)

// Rule answers a class of screening questions. Rules are evaluated in order
// against the lowercased question text; the first match wins.
type Rule struct {
	Name   string
	Match  func(question string) bool
	Answer string
}

// userRule is the YAML shape of a user-supplied rule override
type userRule struct {
	Name     string   `yaml:"name"`
	Contains []string `yaml:"contains"`
	Answer   string   `yaml:"answer"`
}

// BuiltinRules returns the default rule table. Answers that depend on the
// applicant profile are resolved once at construction time.
func BuiltinRules(profile common.ProfileConfig) []Rule {
	compensation := "Negotiable"
	if profile.Salary != "" && profile.Rate != "" {
		compensation = fmt.Sprintf("%s %s", profile.Salary, profile.Rate)
	}

	experience := profile.ExperienceYears
	if experience == "" {
		experience = "3"
	}

	degree := profile.Degree
	if degree == "" {
		degree = "Bachelor's degree"
	}

	return []Rule{
		{
			Name:   "years_of_experience",
			Match:  containsAny("how many years", "years of experience"),
			Answer: experience,
		},
		{
			Name:   "sponsorship",
			Match:  containsAny("sponsor", "visa"),
			Answer: "No",
		},
		{
			Name:   "yes_no_phrasing",
			Match:  containsAny("do you ", "have you ", "are you ", "can you "),
			Answer: "Yes",
		},
		{
			Name:   "work_authorization",
			Match:  containsAny("us citizen", "authorized", "legal right"),
			Answer: "Yes",
		},
		{
			Name:   "compensation",
			Match:  containsAny("salary", "compensation"),
			Answer: compensation,
		},
		{
			Name:   "protected_characteristic",
			Match:  containsAny("gender", "race", "lgbtq", "ethnicity", "nationality"),
			Answer: "Prefer not to say",
		},
		{
			Name:   "education",
			Match:  containsAny("education", "degree"),
			Answer: degree,
		},
		{
			Name:   "start_date",
			Match:  containsAny("when can you start", "start date"),
			Answer: "Immediately",
		},
		{
			Name:   "relocation",
			Match:  containsAny("willing to relocate"),
			Answer: "Yes",
		},
	}
}

// LoadUserRules reads rule overrides from a YAML file. User rules are
// evaluated ahead of the built-ins. A missing file returns no rules with a
// warning; a malformed file is an error.
func LoadUserRules(path string, logger arbor.ILogger) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("Rules file not found, using built-in rules only")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var raw []userRule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(raw))
	for i, ur := range raw {
		if len(ur.Contains) == 0 || ur.Answer == "" {
			return nil, fmt.Errorf("rules file %s: rule %d needs both 'contains' and 'answer'", path, i+1)
		}
		name := ur.Name
		if name == "" {
			name = fmt.Sprintf("user_rule_%d", i+1)
		}
		needles := make([]string, len(ur.Contains))
		for j, n := range ur.Contains {
			needles[j] = strings.ToLower(n)
		}
		rules = append(rules, Rule{
			Name:   name,
			Match:  containsAny(needles...),
			Answer: ur.Answer,
		})
	}

	logger.Info().Int("rules", len(rules)).Str("path", path).Msg("Loaded user answer rules")
	return rules, nil
}

// containsAny matches when the question contains any of the needles.
// Needles must already be lowercase.
func containsAny(needles ...string) func(string) bool {
	return func(question string) bool {
		for _, needle := range needles {
			if strings.Contains(question, needle) {
				return true
			}
		}
		return false
	}
}
