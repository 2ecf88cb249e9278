package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/clai/internal/app"
	"github.com/doeshing/clai/internal/infrastructure/security"
)

func newCheckCommand(container *app.Container) *cobra.Command {
	var (
		quick bool
		cwd   string
	)

	cmd := &cobra.Command{
		Use:   "check [command...]",
		Short: "Classify a command without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			if strings.TrimSpace(command) == "" {
				return security.ErrEmptyCommand
			}

			if quick || container.Config.Security.QuickScreen {
				verdict := container.Screen.Evaluate(command)
				RenderVerdict(cmd.OutOrStdout(), command, verdict)
				return nil
			}

			classifier := container.Classifier
			if cwd != "" {
				classifier = security.NewClassifier(container.Policy,
					security.WithLogger(container.Logger),
					security.WithWorkingDir(cwd),
				)
			}
			verdict := classifier.Classify(command)
			RenderVerdict(cmd.OutOrStdout(), command, verdict)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quick, "quick", "q", false, "Use the regex screen instead of the full parse")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Evaluate path risk relative to this directory")
	return cmd
}
