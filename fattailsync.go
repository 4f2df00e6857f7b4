// Package fattailsync keeps FatTail campaign records and Central Desktop Edge
// workspaces linked. One sync pass runs a saved FatTail report, walks its rows
// and creates the missing Edge accounts, workspaces and milestones, writing
// their handles back to the matching FatTail client, order and drop.
//
// Example usage:
//
//	s, err := fattailsync.New(
//		fattailsync.WithFatTail("https://api.fattail.com/v1/service.svc", user, pass),
//		fattailsync.WithEdge("https://edge.centraldesktop.com/api/v1/", token),
//		fattailsync.WithSalesRole("role-sales"),
//	)
//	if err != nil {
//		return err
//	}
//	s.OnEntityCreated(func(kind, id string, row int) {
//		log.Printf("row %d: created %s %s", row, kind, id)
//	})
//	result, err := s.Sync(ctx, "Edge Sync")
package fattailsync

import (
	"context"
	"regexp"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/internal/metrics"
	"github.com/centraldesktop/fattailsync/internal/properties"
	"github.com/centraldesktop/fattailsync/internal/reconcile"
	"github.com/centraldesktop/fattailsync/internal/report"
	"github.com/centraldesktop/fattailsync/internal/snapshot"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

type (
	// Result is the outcome of one sync pass.
	Result = reconcile.Result
	// SavedReport is a report definition on the FatTail side.
	SavedReport = fattail.SavedReport
)

// Syncer runs sync passes and reports what they did through hooks.
type Syncer interface {
	// Sync runs the named saved report and reconciles every row.
	// The result is returned whenever the pass started, even on error.
	Sync(ctx context.Context, reportName string) (*Result, error)

	// Reports lists the saved reports available on FatTail
	Reports(ctx context.Context) ([]SavedReport, error)

	// OnEntityCreated registers a callback for created Edge entities
	OnEntityCreated(EntityCreatedHook)

	// OnRecordLinked registers a callback for FatTail records updated with a handle
	OnRecordLinked(RecordLinkedHook)

	// OnRowSkipped registers a callback for rows abandoned after a failure
	OnRowSkipped(RowSkippedHook)

	// OnWarning registers a callback for non-fatal row warnings
	OnWarning(WarningHook)
}

// campaignService is everything the pass needs from FatTail.
type campaignService interface {
	report.Service
	reconcile.Campaign
	properties.Lister
}

// collaborationService is everything the pass needs from Edge.
type collaborationService interface {
	snapshot.Source
	reconcile.Collaboration
}

// syncer is the internal implementation of the Syncer interface
type syncer struct {
	config   *config
	campaign campaignService
	collab   collaborationService
	deleted  *regexp.Regexp
	metrics  *metrics.Recorder

	// Event hooks
	hooks *hooks
}

// New creates a Syncer with the given options
func New(opts ...Option) (Syncer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	deleted, err := regexp.Compile(cfg.deletedPattern)
	if err != nil {
		return nil, errors.NewConfigError("sync", "invalid deleted pattern", err)
	}

	return &syncer{
		config:   cfg,
		campaign: fattail.NewService(cfg.fattail),
		collab:   edge.NewClient(cfg.edge),
		deleted:  deleted,
		metrics:  metrics.NewRecorder(),
		hooks:    newHooks(),
	}, nil
}

// Reports lists the saved reports available on FatTail
func (s *syncer) Reports(ctx context.Context) ([]SavedReport, error) {
	return s.campaign.GetSavedReportList(ctx)
}

func (s *syncer) OnEntityCreated(fn EntityCreatedHook) { s.hooks.OnEntityCreated(fn) }
func (s *syncer) OnRecordLinked(fn RecordLinkedHook) { s.hooks.OnRecordLinked(fn) }
func (s *syncer) OnRowSkipped(fn RowSkippedHook) { s.hooks.OnRowSkipped(fn) }
func (s *syncer) OnWarning(fn WarningHook) { s.hooks.OnWarning(fn) }
