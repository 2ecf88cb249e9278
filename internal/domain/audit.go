package domain

import "time"

// AuditRecord captures one classification outcome and, when execution
// followed, how it went.
type AuditRecord struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Command    string      `json:"command"`
	Level      SafetyLevel `json:"level"`
	Reasons    []string    `json:"reasons"`
	Executed   bool        `json:"executed"`
	ExitCode   int         `json:"exit_code"`
	DurationMS int64       `json:"duration_ms"`
}
