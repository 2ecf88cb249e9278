package security

import (
	"fmt"
	"regexp"

	"github.com/doeshing/clai/internal/domain"
)

// Screen is the regex-only companion classifier. It predates the syntax
// tree engine and is deliberately kept separate: it is cheaper, pattern
// driven, and only consulted in passive observation mode. The engine is
// the sole authority for gating execution; the two are expected to
// disagree on structural cases (a bare "sudo" trips the screen, while
// the engine judges what sudo actually wraps).
type Screen struct {
	patterns []compiledScreenRule
}

type compiledScreenRule struct {
	re   *regexp.Regexp
	rule ScreenRule
}

// ScreenRule describes one regex screen pattern.
type ScreenRule struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// NewScreen compiles the given rules, or the defaults when nil.
func NewScreen(rules []ScreenRule) (*Screen, error) {
	if rules == nil {
		rules = DefaultScreenRules()
	}
	compiled := make([]compiledScreenRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile screen pattern %q: %w", rule.Pattern, err)
		}
		compiled = append(compiled, compiledScreenRule{re: re, rule: rule})
	}
	return &Screen{patterns: compiled}, nil
}

// Evaluate runs every pattern over the raw command text.
func (s *Screen) Evaluate(command string) domain.Verdict {
	verdict := domain.Verdict{Level: domain.SafetyGreen}
	for _, pattern := range s.patterns {
		if !pattern.re.MatchString(command) {
			continue
		}
		level := domain.ParseSafetyLevel(pattern.rule.Level)
		verdict.Reasons = append(verdict.Reasons, fmt.Sprintf("%s: %s", level, pattern.rule.Message))
		if level.Exceeds(verdict.Level) {
			verdict.Level = level
		}
	}
	return verdict
}

// DefaultScreenRules returns the built-in pattern set.
func DefaultScreenRules() []ScreenRule {
	return []ScreenRule{
		{Pattern: `rm\s+-rf\s+/`, Level: "red", Message: "Deleting from the filesystem root"},
		{Pattern: `rm\s+-rf\s+\*`, Level: "red", Message: "Recursive delete of everything in place"},
		{Pattern: `rm\s+-rf\s+(\$HOME|~)`, Level: "red", Message: "Deleting the home directory"},
		{Pattern: `dd\s+if=`, Level: "red", Message: "Raw disk writing"},
		{Pattern: `mkfs\.`, Level: "red", Message: "Formatting a filesystem"},
		{Pattern: `> */dev/(sd[a-z]|nvme)`, Level: "red", Message: "Writing to a block device"},
		{Pattern: `:\(\)\{ :\|:& \};:`, Level: "red", Message: "Fork bomb"},
		{Pattern: `curl[^|]*\|\s*(sudo\s+)?(ba)?sh`, Level: "red", Message: "Piping a remote script into a shell"},
		{Pattern: `chmod\s+(-R\s+)?777`, Level: "yellow", Message: "Overly permissive chmod"},
		{Pattern: `^\s*sudo\b`, Level: "yellow", Message: "Privilege escalation"},
		{Pattern: `\bcrontab\b`, Level: "yellow", Message: "Modifying scheduled tasks"},
	}
}
