// Package main provides the entry point for the fattailsync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/centraldesktop/fattailsync/cmd/fattailsync/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	err = application.Execute(ctx, os.Args[1:])
	cancel()
	app.ExitOnError(err)
}
