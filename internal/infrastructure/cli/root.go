package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/clai/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.GateService.Prompter = NewPrompter(nil, nil)

	root := &cobra.Command{
		Use:   "clai",
		Short: "CLAI - command-line safety gate",
		Long:  "CLAI classifies shell commands as green, yellow, or red and gates execution on the verdict.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCommand(container))
	root.AddCommand(newRunCommand(container))
	root.AddCommand(newPolicyCommand(container))
	root.AddCommand(newAuditCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}
