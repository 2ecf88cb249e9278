package domain

// ExecutionResult captures the outcome of running a command on the host
// shell.
type ExecutionResult struct {
	Ran        bool
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
	Err        error
}
