package audit

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// #region rules
// Rule is one redaction step: anything matching Pattern is replaced with
// Replacement. Rules apply in order, best-effort; this is pattern scrubbing,
// not a cryptographic guarantee.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Placeholder is the default replacement. It matches none of the default
// patterns, which is what makes redaction idempotent.
const Placeholder = "[REDACTED]"

// DefaultRules covers common API-key shapes and PEM private-key blocks.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `\bsk-[A-Za-z0-9_-]{16,}\b`, Replacement: Placeholder},
		{Pattern: `\bAKIA[0-9A-Z]{12,}\b`, Replacement: Placeholder},
		{Pattern: `(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{16,}`, Replacement: Placeholder},
		{Pattern: `(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`, Replacement: Placeholder},
	}
}

// LoadRules reads a replacement rule set from a YAML file. The file contents
// replace the defaults wholesale.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read redaction rules: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse redaction rules: %w", err)
	}
	return rules, nil
}

// #endregion rules

// #region redactor
// Redactor applies an ordered rule set to strings bound for the audit sink.
type Redactor struct {
	rules []compiledRule
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// NewRedactor compiles the rule set. Invalid patterns fail construction
// rather than silently skipping a rule.
func NewRedactor(rules []Rule) (*Redactor, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile redaction pattern %q: %w", r.Pattern, err)
		}
		rep := r.Replacement
		if rep == "" {
			rep = Placeholder
		}
		compiled = append(compiled, compiledRule{re: re, replacement: rep})
	}
	return &Redactor{rules: compiled}, nil
}

// Apply runs every rule in order and returns the scrubbed string.
func (r *Redactor) Apply(s string) string {
	for _, cr := range r.rules {
		s = cr.re.ReplaceAllString(s, cr.replacement)
	}
	return s
}

// #endregion redactor
