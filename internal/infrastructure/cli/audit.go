package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/clai/internal/app"
)

const defaultAuditLimit = 20

func newAuditCommand(container *app.Container) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the classification audit trail",
	}

	auditCmd.AddCommand(
		newAuditListCommand(container),
		newAuditClearCommand(container),
	)

	return auditCmd
}

func newAuditListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent classification records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAuditRecords(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultAuditLimit, "Max entries to show")
	return cmd
}

func newAuditClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all audit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.AuditStore == nil {
				return fmt.Errorf("audit store unavailable")
			}
			if err := container.AuditStore.Clear(); err != nil {
				return fmt.Errorf("clear audit records: %w", err)
			}
			return nil
		},
	}
}

func listAuditRecords(out io.Writer, container *app.Container, limit int) error {
	if container.AuditStore == nil {
		return fmt.Errorf("audit store unavailable")
	}

	records, err := container.AuditStore.Records(limit)
	if err != nil {
		return fmt.Errorf("retrieve audit records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No classifications recorded yet.")
		return nil
	}

	for _, rec := range records {
		executed := "not executed"
		if rec.Executed {
			executed = fmt.Sprintf("exit %d", rec.ExitCode)
		}
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			humanize.Time(rec.Timestamp),
			strings.ToUpper(rec.Level.String()),
			executed,
			rec.Command)
	}

	return nil
}
