package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Enabled indicates the prompter is interactive.
func (p *Prompter) Enabled() bool {
	return true
}

// Confirm asks the user to approve a non-green command.
func (p *Prompter) Confirm(level domain.SafetyLevel, command string, reasons []string) (bool, error) {
	fmt.Fprintf(p.out, "\n%s verdict for command:\n  %s\n", strings.ToUpper(level.String()), command)
	for _, reason := range reasons {
		fmt.Fprintf(p.out, " - %s\n", reason)
	}

	fmt.Fprint(p.out, "Run anyway? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
