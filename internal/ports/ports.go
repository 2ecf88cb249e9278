// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). The application depends on these
// abstractions, never on concrete implementations.
package ports

import (
	"context"

	"github.com/doeshing/clai/internal/domain"
)

// Classifier is the command safety gate. Classify never fails: malformed
// shell syntax degrades to a yellow verdict. RequiresApproval returns an
// error only for empty/whitespace input, which is a caller mistake rather
// than a risk judgment.
type Classifier interface {
	Classify(command string) domain.Verdict
	RequiresApproval(command string) (bool, error)
}

// CommandExecutor runs shell commands in the configured shell environment.
// Callers gate execution on the classifier's verdict before invoking it.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.clai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ConfirmationPrompter asks the user to approve a yellow verdict before
// the gated command runs.
type ConfirmationPrompter interface {
	Confirm(level domain.SafetyLevel, command string, reasons []string) (bool, error)
	Enabled() bool
}

// AuditRepository persists classification outcomes for later inspection.
type AuditRepository interface {
	Save(domain.AuditRecord) error
	Records(limit int) ([]domain.AuditRecord, error)
	Clear() error
}

// Logger provides structured logging for the application layer. Audit is
// the dedicated security-audit level the classifier emits classification
// start/escalation/end events on; implementations must treat it as
// fire-and-forget.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
	Audit(event string, fields map[string]interface{})
}
