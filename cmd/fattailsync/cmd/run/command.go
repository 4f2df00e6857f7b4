// Package run implements the sync command.
package run

import (
	"github.com/spf13/cobra"

	"github.com/centraldesktop/fattailsync/internal/cmd/application"
)

// Flags holds the sync command flags.
type Flags struct {
	Report       string
	FailFast     bool
	AllowPartial bool
	KeepTmp      bool
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Run one FatTail to Edge reconciliation pass",
		Args:    cobra.NoArgs,
		Long: `Sync runs a saved FatTail report and reconciles every row against Edge:

• Missing Edge accounts, workspaces and milestones are created
• Existing milestones are updated from the report
• New Edge handles are written back to the FatTail client, order and drop
• The row's sales rep is added to the workspace sales role

A failed row is skipped and reported; the pass continues with the next row
unless --fail-fast is set. The command exits non-zero when any row was
skipped, unless --allow-partial is set.`,
		Example: `  fattailsync sync --report "Edge Sync"
  fattailsync sync --report "Edge Sync" --fail-fast
  fattailsync sync --report "Edge Sync" --allow-partial -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.Report, "report", "r", "", "name of the saved FatTail report to run")
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "stop at the first failed row")
	cmd.Flags().BoolVar(&flags.AllowPartial, "allow-partial", false, "exit zero even when rows were skipped")
	cmd.Flags().BoolVar(&flags.KeepTmp, "keep-tmp", false, "keep the report download directory")
	_ = cmd.MarkFlagRequired("report")

	return cmd
}
