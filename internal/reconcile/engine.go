// Package reconcile walks report rows and brings Edge and FatTail into line,
// creating missing Edge entities and writing their handles back to FatTail.
package reconcile

import (
	"context"
	"strconv"
	"time"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/internal/report"
	"github.com/centraldesktop/fattailsync/internal/snapshot"
	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// Campaign is the FatTail side of the reconciliation.
type Campaign interface {
	GetClient(ctx context.Context, clientID int) (*fattail.Client, error)
	GetOrder(ctx context.Context, orderID int) (*fattail.Order, error)
	GetDrop(ctx context.Context, dropID int) (*fattail.Drop, error)
	UpdateClient(ctx context.Context, client *fattail.Client) error
	UpdateOrder(ctx context.Context, order *fattail.Order) error
	UpdateDrop(ctx context.Context, drop *fattail.Drop) error
}

// Collaboration is the Edge side of the reconciliation.
type Collaboration interface {
	UserLister
	CreateAccount(ctx context.Context, req edge.AccountRequest) (string, error)
	CreateWorkspace(ctx context.Context, accountID string, req edge.WorkspaceRequest) (string, error)
	CreateMilestone(ctx context.Context, workspaceID string, req edge.MilestoneRequest) (string, error)
	UpdateMilestone(ctx context.Context, milestoneID string, req edge.MilestoneRequest) error
	AddUsersToRole(ctx context.Context, workspaceID, roleID string, userIDs []string) error
}

// PropertyResolver maps dynamic property names to ids.
type PropertyResolver interface {
	MustResolveID(ctx context.Context, kind fattail.RecordKind, name string) (int, error)
}

// Config holds the engine settings.
type Config struct {
	WorkspaceTemplate string
	SalesRole         string
	WorkspaceProperty string
	MilestoneProperty string
	FailFast          bool
}

// Engine reconciles report rows one at a time.
type Engine struct {
	campaign Campaign
	collab   Collaboration
	props    PropertyResolver
	tree     *snapshot.Tree
	users    *Directory
	cfg      Config
	observer Observer

	// roleWarned is set once the missing sales role has been reported in a pass.
	roleWarned bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the event observer.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// New creates an Engine working against tree.
func New(campaign Campaign, collab Collaboration, props PropertyResolver, tree *snapshot.Tree, cfg Config, opts ...Option) *Engine {
	if cfg.WorkspaceProperty == "" {
		cfg.WorkspaceProperty = constants.DefaultWorkspaceProperty
	}
	if cfg.MilestoneProperty == "" {
		cfg.MilestoneProperty = constants.DefaultMilestoneProperty
	}
	e := &Engine{
		campaign: campaign,
		collab:   collab,
		props:    props,
		tree:     tree,
		users:    NewDirectory(collab),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes rows in order. A failed row is recorded in the result and
// the pass moves on, unless FailFast is set. Cancellation and configuration
// errors end the pass immediately. The result is returned in every case.
func (e *Engine) Run(ctx context.Context, rows []report.Row) (*Result, error) {
	logger := logging.FromContext(ctx)
	res := NewResult()
	defer func() { res.EndTime = time.Now() }()
	e.roleWarned = false

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if row.Get(report.ColClientID) == "" {
			res.Blank++
			logger.Debug().Int("row", row.Number).Msg("Skipping row without client id")
			continue
		}

		res.Processed++
		err := e.processRow(ctx, row, res)
		if err == nil {
			res.Succeeded++
			e.emit(Event{Type: EventRowCompleted, Row: row.Number})
			continue
		}

		if isRunFatal(err) {
			return res, err
		}

		var rowErr *errors.RowError
		if !errors.As(err, &rowErr) {
			rowErr = &errors.RowError{Row: row.Number, Stage: StageFetchEntities.String(), Err: err}
		}
		res.Skipped = append(res.Skipped, rowErr)
		e.emit(Event{Type: EventRowSkipped, Row: row.Number, Err: rowErr})
		logger.Error().Err(rowErr.Err).Int("row", row.Number).Str("stage", rowErr.Stage).Msg("Row skipped")

		if e.cfg.FailFast {
			return res, rowErr
		}
	}

	return res, nil
}

// isRunFatal reports errors that must stop the whole pass.
func isRunFatal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.IsConfigError(err)
}

// rowState carries what earlier stages of a row resolved.
type rowState struct {
	row report.Row

	clientID string
	orderID  string
	dropID   string

	client *fattail.Client
	order  *fattail.Order
	drop   *fattail.Drop

	account   *snapshot.Account
	workspace *snapshot.Workspace
}

func (e *Engine) processRow(ctx context.Context, row report.Row, res *Result) error {
	st := &rowState{
		row:      row,
		clientID: row.Get(report.ColClientID),
		orderID:  row.Get(report.ColCampaignID),
		dropID:   row.Get(report.ColDropID),
	}
	ctx = logging.WithRow(ctx, row.Number)
	ctx = logging.WithFields(ctx, map[string]string{
		"client_id": st.clientID,
		"order_id":  st.orderID,
		"drop_id":   st.dropID,
	})

	steps := []struct {
		stage Stage
		run   func(context.Context, *rowState, *Result) error
	}{
		{StageFetchEntities, e.fetchEntities},
		{StageResolveAccount, e.resolveAccount},
		{StageResolveWorkspace, e.resolveWorkspace},
		{StageAssignRole, e.assignRole},
		{StageResolveMilestone, e.resolveMilestone},
	}
	for _, step := range steps {
		if err := step.run(ctx, st, res); err != nil {
			if isRunFatal(err) {
				return err
			}
			return &errors.RowError{Row: row.Number, Stage: step.stage.String(), Err: err}
		}
	}

	logging.FromContext(ctx).Debug().Str("stage", StageDone.String()).Msg("Row reconciled")
	return nil
}

func (e *Engine) emit(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}

// warn records a non-fatal condition and keeps the row going.
func (e *Engine) warn(ctx context.Context, res *Result, row int, kind string, err error) {
	res.Warnings = append(res.Warnings, err)
	e.emit(Event{Type: EventWarning, Row: row, Kind: kind, Err: err})
	logging.FromContext(ctx).Warn().Err(err).Str("kind", kind).Msg("Row warning")
}

func parseID(field, value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.NewValidationError(field, value, "not a numeric id")
	}
	return id, nil
}
