package security

import (
	"fmt"
	"strings"

	"github.com/doeshing/clai/internal/domain"
)

// genericScan is the fallback handler for every command without
// specialized logic. Flag-looking arguments are skipped; everything else
// is treated as a potential path.
func (c *Classifier) genericScan(cmd Command, acc *accumulator) {
	for _, r := range cmd.Redirects {
		c.scanTarget(r.Target, "redirect target", acc)
	}
	for _, arg := range cmd.Args {
		if arg.Literal && strings.HasPrefix(arg.Text, "-") {
			continue
		}
		c.scanTarget(arg, "argument", acc)
	}
}

// findScan wraps the find-execution analyzer. find's search roots come
// before the first expression primary, so those still get path checks;
// everything after is expression syntax the analyzer owns.
func (c *Classifier) findScan(cmd Command, acc *accumulator) {
	for _, arg := range cmd.Args {
		if arg.Literal && (strings.HasPrefix(arg.Text, "-") || arg.Text == "(" || arg.Text == "!") {
			break
		}
		c.scanTarget(arg, "find search root", acc)
	}

	report := AnalyzeFindArgs(cmd.Args)
	switch {
	case report.Dangerous:
		acc.escalate(domain.SafetyRed, report.Reason)
	case report.Suspicious:
		acc.escalate(domain.SafetyYellow, report.Reason)
	}
}

// scanTarget classifies one word as a path. Opaque words escalate to
// yellow: nothing can be said about text that is not statically known.
func (c *Classifier) scanTarget(arg Argument, what string, acc *accumulator) {
	if !arg.Literal {
		acc.escalate(domain.SafetyYellow, "opaque or unparseable "+what)
		return
	}
	level := c.policy.AnalyzePath(arg.Text, c.cwd)
	if level == domain.SafetyGreen {
		return
	}
	acc.escalate(level, fmt.Sprintf("%s %q is a sensitive path", what, arg.Text))
}
