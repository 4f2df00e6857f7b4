// Package reports implements the reports command.
package reports

import (
	"github.com/spf13/cobra"

	"github.com/centraldesktop/fattailsync/internal/cmd/application"
	"github.com/centraldesktop/fattailsync/internal/output"
)

// NewCommand creates the reports command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "reports",
		GroupID: "core",
		Short:   "List saved FatTail reports",
		Long:    `Reports lists the saved reports on FatTail. Use a name from this list with sync --report.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Syncer()
			if err != nil {
				return err
			}

			reports, err := s.Reports(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger().Debug().Int("count", len(reports)).Msg("Listed saved reports")

			formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
			return formatter.Format(cmd.OutOrStdout(), reports)
		},
	}
}
