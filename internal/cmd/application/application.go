// Package application provides the application interface for fattailsync commands.
//
// The Application interface is the contract between the application layer and
// the command implementations, so commands can be tested with a Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            s, err := app.Syncer()
//	            if err != nil {
//	                return err
//	            }
//	            reports, err := s.Reports(cmd.Context())
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/centraldesktop/fattailsync"
)

// Application provides what commands need from the app.
// The App struct from cmd/fattailsync/app implements this interface.
type Application interface {
	// Syncer returns the syncer. Without options the cached default instance
	// is returned; with options a new instance is built from the loaded
	// configuration plus opts.
	Syncer(opts ...fattailsync.Option) (fattailsync.Syncer, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
