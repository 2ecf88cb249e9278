package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/clai/internal/app"
	"github.com/doeshing/clai/internal/application/gate"
	"github.com/doeshing/clai/internal/infrastructure"
	"github.com/doeshing/clai/internal/infrastructure/security"
)

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		assumeYes   bool
		previewOnly bool
		workdir     string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [command...]",
		Short: "Classify a command and execute it when the verdict allows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			service := container.GateService
			if workdir != "" {
				scoped := *service
				scoped.Classifier = security.NewClassifier(container.Policy,
					security.WithLogger(container.Logger),
					security.WithWorkingDir(workdir),
				)
				scoped.Executor = infrastructure.NewLocalExecutor(container.Config.Preferences.Shell, workdir)
				service = &scoped
			}

			result, err := service.Run(gate.RunRequest{
				Context:     ctx,
				Command:     strings.Join(args, " "),
				PreviewOnly: previewOnly,
				AssumeYes:   assumeYes,
			})
			RenderRunResult(cmd.OutOrStdout(), strings.Join(args, " "), result)
			return err
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Approve yellow verdicts without prompting")
	cmd.Flags().BoolVarP(&previewOnly, "preview", "p", false, "Classify only, never execute")
	cmd.Flags().StringVar(&workdir, "dir", "", "Working directory for classification and execution")
	defaultTimeout := time.Duration(container.Config.Preferences.TimeoutSeconds) * time.Second
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Execution timeout")
	return cmd
}
