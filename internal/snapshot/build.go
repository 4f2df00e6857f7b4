package snapshot

import (
	"context"
	"regexp"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// Source lists Edge entities level by level.
type Source interface {
	Accounts(ctx context.Context) ([]edge.Account, error)
	Workspaces(ctx context.Context, accountID string) ([]edge.Workspace, error)
	Milestones(ctx context.Context, workspaceID string) ([]edge.Milestone, error)
}

// Options controls how a tree is built.
type Options struct {
	// ClientField, OrderField and DropField name the custom fields holding
	// the correlation keys.
	ClientField string
	OrderField  string
	DropField   string

	// DeletedPattern matches names of workspaces that are treated as deleted.
	DeletedPattern *regexp.Regexp
}

// DefaultOptions returns the standard correlation fields and deleted pattern.
func DefaultOptions() Options {
	return Options{
		ClientField:    constants.FieldClientID,
		OrderField:     constants.FieldOrderID,
		DropField:      constants.FieldDropID,
		DeletedPattern: regexp.MustCompile(constants.DefaultDeletedPattern),
	}
}

// Build walks accounts, then workspaces per account, then milestones per
// workspace, and indexes everything carrying a correlation key.
// Records without the key are left out. Workspaces whose name matches the
// deleted pattern are left out together with their milestones.
func Build(ctx context.Context, src Source, opts Options) (*Tree, error) {
	logger := logging.FromContext(ctx)
	tree := NewTree()

	accounts, err := src.Accounts(ctx)
	if err != nil {
		return nil, errors.WrapResource("fetch", "accounts", "", err)
	}

	for _, acct := range accounts {
		clientID, ok := acct.CustomFields.Lookup(opts.ClientField)
		if !ok || clientID == "" {
			continue
		}
		node := NewAccount(acct.ID, clientID, acct.Name)
		if err := tree.AddAccount(node); err != nil {
			logger.Warn().Str("client_id", clientID).Str("account", acct.ID).Msg("Duplicate account for client, keeping first")
			continue
		}

		workspaces, err := src.Workspaces(ctx, acct.ID)
		if err != nil {
			return nil, errors.WrapResource("fetch", "workspaces", acct.ID, err)
		}
		for _, ws := range workspaces {
			if err := addWorkspace(ctx, src, opts, node, ws); err != nil {
				return nil, err
			}
		}
	}

	stats := tree.Stats()
	logger.Info().
		Int("accounts", stats.Accounts).
		Int("workspaces", stats.Workspaces).
		Int("milestones", stats.Milestones).
		Msg("Built Edge snapshot")

	return tree, nil
}

func addWorkspace(ctx context.Context, src Source, opts Options, acct *Account, ws edge.Workspace) error {
	logger := logging.FromContext(ctx)

	orderID, ok := ws.CustomFields.Lookup(opts.OrderField)
	if !ok || orderID == "" {
		return nil
	}
	if opts.DeletedPattern != nil && opts.DeletedPattern.MatchString(ws.Name) {
		logger.Debug().Str("workspace", ws.ID).Str("name", ws.Name).Msg("Skipping deleted workspace")
		return nil
	}

	node := NewWorkspace(ws.ID, orderID, ws.Name)
	if err := acct.AddWorkspace(node); err != nil {
		logger.Warn().Str("order_id", orderID).Str("workspace", ws.ID).Msg("Duplicate workspace for order, keeping first")
		return nil
	}

	milestones, err := src.Milestones(ctx, ws.ID)
	if err != nil {
		return errors.WrapResource("fetch", "milestones", ws.ID, err)
	}
	for _, ms := range milestones {
		dropID, ok := ms.CustomFields.Lookup(opts.DropField)
		if !ok || dropID == "" {
			continue
		}
		if err := node.AddMilestone(NewMilestone(ms.ID, dropID)); err != nil {
			logger.Warn().Str("drop_id", dropID).Str("milestone", ms.ID).Msg("Duplicate milestone for drop, keeping first")
		}
	}
	return nil
}
