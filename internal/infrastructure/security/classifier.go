package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/pkg/logger"
	"github.com/doeshing/clai/internal/ports"
)

// ErrEmptyCommand marks empty/whitespace input to RequiresApproval.
var ErrEmptyCommand = domain.ErrEmptyCommand

// Classifier statically analyzes a shell command line and decides whether
// it may auto-execute, needs confirmation, or must be refused. It is a
// pure function of its inputs plus the policy: no shared mutable state,
// safe for concurrent use.
type Classifier struct {
	policy   *Policy
	cwd      string
	log      ports.Logger
	handlers map[string]handlerFunc
}

// handlerFunc contributes a partial verdict for one command node.
type handlerFunc func(cmd Command, acc *accumulator)

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger installs an audit sink. The default is a no-op logger.
func WithLogger(log ports.Logger) Option {
	return func(c *Classifier) { c.log = log }
}

// WithWorkingDir pins the directory path arguments are resolved against.
// The default is the process working directory.
func WithWorkingDir(dir string) Option {
	return func(c *Classifier) { c.cwd = dir }
}

// NewClassifier builds a classifier over the given policy. A nil policy
// means the built-in defaults.
func NewClassifier(policy *Policy, opts ...Option) *Classifier {
	if policy == nil {
		policy = DefaultPolicy()
	}
	c := &Classifier{
		policy: policy,
		log:    logger.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			c.cwd = wd
		}
	}
	c.handlers = map[string]handlerFunc{
		"find": c.findScan,
	}
	return c
}

// Classify parses the command and folds per-node contributions into one
// verdict. Parse failures degrade to yellow: malformed input never
// auto-executes and never surfaces as an error.
func (c *Classifier) Classify(command string) domain.Verdict {
	auditLog(c.log, "classify.start", map[string]interface{}{"command": command})
	acc := &accumulator{log: c.log}

	tree, err := Parse(command)
	if err != nil {
		acc.escalate(domain.SafetyYellow, "command could not be parsed as shell syntax")
		safeWarn(c.log, "shell parse failed", map[string]interface{}{
			"command": command,
			"error":   err.Error(),
		})
	} else {
		c.visit(tree, acc)
	}

	auditLog(c.log, "classify.end", map[string]interface{}{
		"level":   acc.level.String(),
		"reasons": len(acc.reasons),
	})
	return domain.Verdict{Level: acc.level, Reasons: acc.reasons}
}

// RequiresApproval reports whether the command needs a human before it
// runs. Empty/whitespace input returns ErrEmptyCommand.
func (c *Classifier) RequiresApproval(command string) (bool, error) {
	if strings.TrimSpace(command) == "" {
		return false, ErrEmptyCommand
	}
	return c.Classify(command).RequiresApproval(), nil
}

// visit dispatches on the node variant. The match is exhaustive over the
// closed Node set; Unknown is the catch-all that keeps descending.
func (c *Classifier) visit(node Node, acc *accumulator) {
	switch n := node.(type) {
	case Program:
		for _, cmd := range n.Commands {
			c.visit(cmd, acc)
		}
	case Command:
		c.visitCommand(n, acc)
	case Pipeline:
		for _, stage := range n.Stages {
			c.visit(stage, acc)
		}
	case Logical:
		c.visit(n.Left, acc)
		c.visit(n.Right, acc)
	case Subshell:
		for _, cmd := range n.Body {
			c.visit(cmd, acc)
		}
	case CommandSubst:
		for _, cmd := range n.Body {
			c.visit(cmd, acc)
		}
	case Unknown:
		for _, child := range n.Children {
			c.visit(child, acc)
		}
		for _, r := range n.Redirects {
			c.scanTarget(r.Target, "redirect target", acc)
		}
	}
}

func (c *Classifier) visitCommand(cmd Command, acc *accumulator) {
	name := ""
	if cmd.Name.Literal {
		name = commandName(cmd.Name.Text)
	}

	if name != "" && c.policy.Denied(name) {
		// The command itself is the hazard; its arguments are not the
		// point and are not descended into.
		acc.escalate(domain.SafetyRed, fmt.Sprintf("%s is a blocked command", name))
		return
	}

	// Substitutions nested anywhere in the command's words always get
	// visited, whatever handler applies to the command itself.
	c.visitSubstitutions(cmd, acc)

	if name == "" {
		acc.escalate(domain.SafetyYellow, "command name cannot be resolved statically")
		c.genericScan(cmd, acc)
		return
	}
	if !c.policy.Allowed(name) {
		acc.escalate(domain.SafetyYellow, fmt.Sprintf("unknown or unlisted command %q", name))
	}
	if handler, ok := c.handlers[name]; ok {
		handler(cmd, acc)
		return
	}
	c.genericScan(cmd, acc)
}

func (c *Classifier) visitSubstitutions(cmd Command, acc *accumulator) {
	for _, sub := range cmd.Name.Substitutions {
		c.visit(sub, acc)
	}
	for _, arg := range cmd.Args {
		for _, sub := range arg.Substitutions {
			c.visit(sub, acc)
		}
	}
	for _, r := range cmd.Redirects {
		for _, sub := range r.Target.Substitutions {
			c.visit(sub, acc)
		}
	}
}

// commandName reduces the invoked word to a bare command name, so
// /bin/rm and rm hit the same registry entries.
func commandName(text string) string {
	if text == "" {
		return ""
	}
	return filepath.Base(text)
}

// accumulator threads the monotonic escalation state through traversal.
// The level only moves green -> yellow -> red; every escalation appends
// one reason, in the order checks fired.
type accumulator struct {
	level   domain.SafetyLevel
	reasons []string
	log     ports.Logger
}

func (a *accumulator) escalate(level domain.SafetyLevel, reason string) {
	if level == domain.SafetyGreen {
		return
	}
	a.reasons = append(a.reasons, fmt.Sprintf("%s: %s", level, reason))
	if level.Exceeds(a.level) {
		a.level = level
	}
	auditLog(a.log, "classify.escalation", map[string]interface{}{
		"level":  level.String(),
		"reason": reason,
	})
}

// auditLog shields classification from a misbehaving sink: a panic in the
// logger must never change or abort the verdict.
func auditLog(log ports.Logger, event string, fields map[string]interface{}) {
	defer func() { _ = recover() }()
	log.Audit(event, fields)
}

func safeWarn(log ports.Logger, msg string, fields map[string]interface{}) {
	defer func() { _ = recover() }()
	log.Warn(msg, fields)
}
