package fattailsync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/centraldesktop/fattailsync/internal/properties"
	"github.com/centraldesktop/fattailsync/internal/reconcile"
	"github.com/centraldesktop/fattailsync/internal/report"
	"github.com/centraldesktop/fattailsync/internal/snapshot"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// Sync runs one pass: fetch the report, snapshot Edge, reconcile every row.
// The download directory is cleaned up and metrics are written however the
// pass ends.
func (s *syncer) Sync(ctx context.Context, reportName string) (*Result, error) {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithReport(ctx, reportName)
	logger := logging.FromContext(ctx)
	logger.Info().Msg("Starting sync")

	fetcher := report.NewFetcher(s.campaign, report.Options{
		Dir:          s.config.tmpDir,
		KeepDir:      s.config.keepTmpDir,
		PollInterval: s.config.pollInterval,
		Timeout:      s.config.reportTimeout,
		HTTPClient:   s.config.fattail.HTTPClient,
	})
	defer func() {
		if err := fetcher.Cleanup(); err != nil {
			logger.Warn().Err(err).Str("dir", fetcher.Dir()).Msg("Failed to clean up report directory")
		}
	}()
	defer s.finish(ctx)

	dataset, err := fetcher.Fetch(logging.WithSystem(ctx, "fattail"), reportName)
	if err != nil {
		logger.Error().Err(err).Msg("Report acquisition failed")
		return nil, err
	}
	s.metrics.ObserveReportWait(dataset.Waited)
	logger.Info().Int("rows", dataset.Len()).Msg("Report loaded")

	opts := snapshot.DefaultOptions()
	opts.DeletedPattern = s.deleted
	tree, err := snapshot.Build(logging.WithSystem(ctx, "edge"), s.collab, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Edge snapshot failed")
		return nil, err
	}

	engine := reconcile.New(s.campaign, s.collab, properties.NewResolver(s.campaign), tree,
		reconcile.Config{
			WorkspaceTemplate: s.config.workspaceTemplate,
			SalesRole:         s.config.salesRole,
			WorkspaceProperty: s.config.workspaceProperty,
			MilestoneProperty: s.config.milestoneProperty,
			FailFast:          s.config.failFast,
		},
		reconcile.WithObserver(s.observe),
	)

	result, err := engine.Run(ctx, dataset.Rows())
	s.metrics.ObserveBlankRows(result.Blank)

	event := logger.Info()
	if err != nil {
		event = logger.Error().Err(err)
	}
	event.Dur("duration", result.Duration()).Msg(result.Summary())

	return result, err
}

// observe fans engine events out to metrics and user hooks.
func (s *syncer) observe(ev reconcile.Event) {
	s.metrics.Observe(ev)
	s.hooks.dispatch(ev)
}

// finish stamps the run and exports metrics if configured.
func (s *syncer) finish(ctx context.Context) {
	s.metrics.MarkRun(time.Now())
	if s.config.metricsTextfile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.config.metricsTextfile); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Failed to write metrics")
	}
}
