package run

import (
	"context"
	"fmt"
	"io"

	"github.com/centraldesktop/fattailsync"
	"github.com/centraldesktop/fattailsync/internal/cmd/application"
	"github.com/centraldesktop/fattailsync/internal/output"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// Execute runs one sync pass and prints its result.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	logger := app.Logger()

	var opts []fattailsync.Option
	if flags.FailFast {
		opts = append(opts, fattailsync.WithFailFast(true))
	}
	if flags.KeepTmp {
		opts = append(opts, fattailsync.WithKeepTmpDir(true))
	}

	s, err := app.Syncer(opts...)
	if err != nil {
		return err
	}

	result, err := s.Sync(ctx, flags.Report)
	if result != nil {
		if printErr := printResult(w, output.DetectFormat(app.OutputFormat()), result); printErr != nil {
			logger.Warn().Err(printErr).Msg("Failed to print result")
		}
	}
	if err != nil {
		return err
	}

	if result.HasFailures() && !flags.AllowPartial {
		return &PartialError{Skipped: len(result.Skipped)}
	}
	return nil
}

// PartialError is returned when a pass finished with skipped rows.
type PartialError struct {
	Skipped int
}

// Error implements the error interface
func (e *PartialError) Error() string {
	return fmt.Sprintf("%d rows skipped (use --allow-partial to accept)", e.Skipped)
}

// IsPartial reports whether err is a PartialError.
func IsPartial(err error) bool {
	var p *PartialError
	return errors.As(err, &p)
}
