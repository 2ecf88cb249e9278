package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyCommand marks empty/whitespace input. It is a caller mistake,
// kept distinct from any classification outcome so "nothing to approve"
// is never mistaken for "approved".
var ErrEmptyCommand = errors.New("command is empty")

// SafetyLevel enumerates classification outcomes, ordered from benign to
// blocked. The zero value is SafetyGreen.
type SafetyLevel int

const (
	// SafetyGreen marks a command that may auto-execute.
	SafetyGreen SafetyLevel = iota
	// SafetyYellow marks a command that needs human confirmation.
	SafetyYellow
	// SafetyRed marks a command that must not run.
	SafetyRed
)

func (l SafetyLevel) String() string {
	switch l {
	case SafetyGreen:
		return "green"
	case SafetyYellow:
		return "yellow"
	case SafetyRed:
		return "red"
	default:
		return fmt.Sprintf("safetylevel(%d)", int(l))
	}
}

// Exceeds reports whether l outranks other in severity.
func (l SafetyLevel) Exceeds(other SafetyLevel) bool {
	return l > other
}

// ParseSafetyLevel maps a policy-file string to a level. Unrecognized
// values fall back to SafetyYellow so a typo never silently allows.
func ParseSafetyLevel(value string) SafetyLevel {
	switch value {
	case "green", "safe":
		return SafetyGreen
	case "red", "block":
		return SafetyRed
	default:
		return SafetyYellow
	}
}

// Verdict couples the aggregated safety level with the ordered audit
// trail of reasons, one entry per escalation event.
type Verdict struct {
	Level   SafetyLevel
	Reasons []string
}

// RequiresApproval reports whether the verdict gates execution on a human.
func (v Verdict) RequiresApproval() bool {
	return v.Level != SafetyGreen
}
