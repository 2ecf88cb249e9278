package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/clai/internal/application/gate"
	"github.com/doeshing/clai/internal/domain"
)

const (
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiReset  = "\033[0m"
)

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func levelLabel(level domain.SafetyLevel) string {
	label := strings.ToUpper(level.String())
	if !colorEnabled() {
		return label
	}
	switch level {
	case domain.SafetyGreen:
		return ansiGreen + label + ansiReset
	case domain.SafetyYellow:
		return ansiYellow + label + ansiReset
	default:
		return ansiRed + label + ansiReset
	}
}

// RenderVerdict prints a verdict in a friendly, ASCII-only format.
func RenderVerdict(out io.Writer, command string, verdict domain.Verdict) {
	fmt.Fprintf(out, "Command:\n  %s\n", command)
	fmt.Fprintf(out, "\nSafety: %s\n", levelLabel(verdict.Level))
	for _, reason := range verdict.Reasons {
		fmt.Fprintf(out, " - %s\n", reason)
	}
	if verdict.RequiresApproval() {
		fmt.Fprintln(out, "\nThis command requires approval before it runs.")
	}
}

// RenderRunResult prints the verdict plus the execution outcome.
func RenderRunResult(out io.Writer, command string, result gate.RunResult) {
	RenderVerdict(out, command, result.Verdict)

	if result.Execution == nil {
		fmt.Fprintln(out, "\nCommand was not executed (preview mode or approval declined).")
		return
	}

	exec := result.Execution
	if exec.Ran {
		fmt.Fprintf(out, "\nCommand executed (exit %d, %dms).\n", exec.ExitCode, exec.DurationMS)
	} else if exec.Err != nil {
		fmt.Fprintf(out, "\nCommand failed: %v\n", exec.Err)
	}
	if exec.Stdout != "" {
		fmt.Fprintln(out, "\nstdout:")
		fmt.Fprintln(out, exec.Stdout)
	}
	if exec.Stderr != "" {
		fmt.Fprintln(out, "\nstderr:")
		fmt.Fprintln(out, exec.Stderr)
	}
}
