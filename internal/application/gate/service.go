// Package gate orchestrates the classify / confirm / execute lifecycle.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/ports"
)

// ErrBlocked is returned when a red verdict stops execution outright.
var ErrBlocked = errors.New("command blocked: red safety verdict")

// Service gates command execution on the classifier's verdict.
type Service struct {
	Classifier      ports.Classifier
	Executor        ports.CommandExecutor
	Prompter        ports.ConfirmationPrompter
	AuditStore      ports.AuditRepository
	Logger          ports.Logger
	AutoExecuteSafe bool
}

// RunRequest describes one gated execution attempt.
type RunRequest struct {
	Context     context.Context
	Command     string
	PreviewOnly bool
	AssumeYes   bool
}

// RunResult reports the verdict and, when execution happened, the outcome.
type RunResult struct {
	Verdict   domain.Verdict
	Executed  bool
	Execution *domain.ExecutionResult
}

// Run classifies the command and executes it when the verdict allows.
func (s *Service) Run(req RunRequest) (RunResult, error) {
	if s.Classifier == nil || s.Executor == nil || s.Logger == nil {
		return RunResult{}, errors.New("gate.Service dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(req.Command) == "" {
		return RunResult{}, domain.ErrEmptyCommand
	}

	verdict := s.Classifier.Classify(req.Command)
	result := RunResult{Verdict: verdict}

	record := domain.AuditRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Command:   req.Command,
		Level:     verdict.Level,
		Reasons:   verdict.Reasons,
	}

	shouldExecute, err := s.decideExecution(req, verdict)
	if err != nil {
		s.saveAudit(record)
		return result, err
	}

	if !shouldExecute {
		s.saveAudit(record)
		return result, nil
	}

	execResult, execErr := s.Executor.Execute(ctx, req.Command)
	result.Executed = execResult.Ran
	result.Execution = &execResult

	record.Executed = execResult.Ran
	record.ExitCode = execResult.ExitCode
	record.DurationMS = execResult.DurationMS
	s.saveAudit(record)

	if execErr != nil {
		return result, fmt.Errorf("execute command: %w", execErr)
	}
	return result, nil
}

func (s *Service) decideExecution(req RunRequest, verdict domain.Verdict) (bool, error) {
	if verdict.Level == domain.SafetyRed {
		return false, ErrBlocked
	}
	if req.PreviewOnly {
		return false, nil
	}
	if verdict.Level == domain.SafetyGreen {
		return req.AssumeYes || s.AutoExecuteSafe, nil
	}

	// Yellow: needs explicit approval.
	if req.AssumeYes {
		s.Logger.Audit("approval assumed", map[string]interface{}{
			"command": req.Command,
			"level":   verdict.Level.String(),
		})
		return true, nil
	}
	if s.Prompter == nil || !s.Prompter.Enabled() {
		return false, nil
	}
	return s.Prompter.Confirm(verdict.Level, req.Command, verdict.Reasons)
}

func (s *Service) saveAudit(record domain.AuditRecord) {
	if s.AuditStore == nil {
		return
	}
	if err := s.AuditStore.Save(record); err != nil {
		s.Logger.Warn("audit save failed", map[string]interface{}{"error": err.Error()})
	}
}
