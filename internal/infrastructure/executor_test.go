package infrastructure

import (
	"context"
	"strings"
	"testing"
)

func TestLocalExecutorRunsCommand(t *testing.T) {
	executor := NewLocalExecutor("/bin/sh", t.TempDir())

	result, err := executor.Execute(context.Background(), "echo hello")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !result.Ran || result.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.Contains(result.Stdout, "hello") {
		t.Fatalf("stdout missing output: %q", result.Stdout)
	}
}

func TestLocalExecutorReportsExitCode(t *testing.T) {
	executor := NewLocalExecutor("/bin/sh", "")

	result, err := executor.Execute(context.Background(), "exit 3")
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if result.Ran {
		t.Fatalf("failed command reported as ran: %+v", result)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
}

func TestLocalExecutorHonorsWorkdir(t *testing.T) {
	dir := t.TempDir()
	executor := NewLocalExecutor("/bin/sh", dir)

	result, err := executor.Execute(context.Background(), "pwd")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(result.Stdout, dir) {
		t.Fatalf("expected workdir %q in output %q", dir, result.Stdout)
	}
}
