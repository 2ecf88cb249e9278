package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/clai/internal/app"
	"github.com/doeshing/clai/internal/infrastructure/security"
)

func newPolicyCommand(container *app.Container) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect and manage the classification policy",
	}

	policyCmd.AddCommand(
		newPolicyShowCommand(container),
		newPolicyInitCommand(container),
		newPolicyPathCommand(container),
	)

	return policyCmd
}

func newPolicyShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active allow and deny lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			showPolicy(cmd.OutOrStdout(), container.Policy)
			return nil
		},
	}
}

func newPolicyInitCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default policy file for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.PolicyPath
			if !force && fileExists(path) {
				return fmt.Errorf("policy file already exists at %s (use --force to overwrite)", path)
			}
			if err := security.SavePolicy(path, security.DefaultPolicy()); err != nil {
				return fmt.Errorf("write policy: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default policy to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing policy file")
	return cmd
}

func newPolicyPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the policy file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.PolicyPath)
			return nil
		},
	}
}

func showPolicy(out io.Writer, policy *security.Policy) {
	fmt.Fprintf(out, "Allowed commands (%d):\n", len(policy.Allow))
	fmt.Fprintf(out, "  %s\n", strings.Join(sorted(policy.Allow), ", "))
	fmt.Fprintf(out, "Denied commands (%d):\n", len(policy.Deny))
	fmt.Fprintf(out, "  %s\n", strings.Join(sorted(policy.Deny), ", "))
	fmt.Fprintf(out, "Sensitive extensions (%d):\n", len(policy.SensitiveExtensions))
	fmt.Fprintf(out, "  %s\n", strings.Join(sorted(policy.SensitiveExtensions), ", "))
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
