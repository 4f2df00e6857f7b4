package reconcile

import (
	"context"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/internal/properties"
	"github.com/centraldesktop/fattailsync/internal/report"
	"github.com/centraldesktop/fattailsync/internal/snapshot"
	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

func (e *Engine) fetchEntities(ctx context.Context, st *rowState, _ *Result) error {
	clientID, err := parseID("client_id", st.clientID)
	if err != nil {
		return err
	}
	orderID, err := parseID("order_id", st.orderID)
	if err != nil {
		return err
	}
	dropID, err := parseID("drop_id", st.dropID)
	if err != nil {
		return err
	}

	if st.client, err = e.campaign.GetClient(ctx, clientID); err != nil {
		return errors.WrapResource("fetch", KindClient, st.clientID, err)
	}
	if st.order, err = e.campaign.GetOrder(ctx, orderID); err != nil {
		return errors.WrapResource("fetch", KindOrder, st.orderID, err)
	}
	if st.drop, err = e.campaign.GetDrop(ctx, dropID); err != nil {
		return errors.WrapResource("fetch", KindDrop, st.dropID, err)
	}
	st.order.DynamicPropertyValues.Normalize()
	st.drop.DynamicPropertyValues.Normalize()
	return nil
}

func (e *Engine) resolveAccount(ctx context.Context, st *rowState, res *Result) error {
	logger := logging.FromContext(ctx)

	acct, ok := e.tree.FindAccount(st.clientID)
	if !ok {
		req := edge.NewAccountRequest(st.client.Name, edge.F(constants.FieldClientID, st.clientID))
		hash, err := e.collab.CreateAccount(ctx, req)
		if err != nil {
			return errors.WrapResource("create", KindAccount, st.clientID, err)
		}
		acct = snapshot.NewAccount(hash, st.clientID, st.client.Name)
		if err := e.tree.AddAccount(acct); err != nil {
			return err
		}
		res.Created[KindAccount]++
		e.emit(Event{Type: EventEntityCreated, Row: st.row.Number, Kind: KindAccount, ID: hash})
		logger.Info().Str("account", hash).Msg("Created account")
	}
	st.account = acct

	if st.client.ExternalID != "" {
		return nil
	}
	st.client.ExternalID = acct.Hash
	if err := e.campaign.UpdateClient(ctx, st.client); err != nil {
		return errors.WrapResource("update", KindClient, st.clientID, err)
	}
	res.Linked[KindClient]++
	e.emit(Event{Type: EventRecordLinked, Row: st.row.Number, Kind: KindClient, ID: st.clientID})
	logger.Info().Str("account", acct.Hash).Msg("Linked client to account")
	return nil
}

func (e *Engine) resolveWorkspace(ctx context.Context, st *rowState, res *Result) error {
	logger := logging.FromContext(ctx)
	row := st.row

	ws, ok := st.account.FindWorkspace(st.orderID)
	if !ok {
		name := row.Get(report.ColCampaignName)
		req := edge.NewWorkspaceRequest(name, e.cfg.WorkspaceTemplate,
			edge.F(constants.FieldOrderID, st.orderID),
			edge.F(constants.FieldCampaignStatus, row.Get(report.ColIOStatus)),
			edge.F(constants.FieldCampaignStartDate, row.Get(report.ColCampaignStartDate)),
			edge.F(constants.FieldCampaignEndDate, row.Get(report.ColCampaignEndDate)),
		)
		hash, err := e.collab.CreateWorkspace(ctx, st.account.Hash, req)
		if err != nil {
			return errors.WrapResource("create", KindWorkspace, st.orderID, err)
		}
		ws = snapshot.NewWorkspace(hash, st.orderID, name)
		if err := st.account.AddWorkspace(ws); err != nil {
			return err
		}
		res.Created[KindWorkspace]++
		e.emit(Event{Type: EventEntityCreated, Row: row.Number, Kind: KindWorkspace, ID: hash})
		logger.Info().Str("workspace", hash).Msg("Created workspace")
	}
	st.workspace = ws

	if row.Get(report.ColWorkspaceID) != "" {
		return nil
	}
	linked, err := e.link(ctx, fattail.KindOrder, e.cfg.WorkspaceProperty, &st.order.DynamicPropertyValues, ws.Hash)
	if err != nil || !linked {
		return err
	}
	if err := e.campaign.UpdateOrder(ctx, st.order); err != nil {
		return errors.WrapResource("update", KindOrder, st.orderID, err)
	}
	res.Linked[KindOrder]++
	e.emit(Event{Type: EventRecordLinked, Row: row.Number, Kind: KindOrder, ID: st.orderID})
	logger.Info().Str("workspace", ws.Hash).Msg("Linked order to workspace")
	return nil
}

func (e *Engine) assignRole(ctx context.Context, st *rowState, res *Result) error {
	rep := ParseSalesRep(st.row.Get(report.ColSalesRep))
	if rep == "" {
		logging.FromContext(ctx).Debug().Msg("No sales rep on row")
		return nil
	}

	user, found, err := e.users.Lookup(ctx, rep)
	if err != nil {
		return errors.WrapResource("fetch", "users", "", err)
	}
	if !found {
		e.warn(ctx, res, st.row.Number, KindUser, &errors.LookupWarning{Kind: KindUser, Key: rep})
	}
	if e.cfg.SalesRole == "" && !e.roleWarned {
		e.roleWarned = true
		e.warn(ctx, res, st.row.Number, KindRole, &errors.LookupWarning{Kind: KindRole, Key: "sales"})
	}
	if !found || e.cfg.SalesRole == "" {
		return nil
	}

	if err := e.collab.AddUsersToRole(ctx, st.workspace.Hash, e.cfg.SalesRole, []string{user.ID}); err != nil {
		return errors.WrapResource("link", KindRole, e.cfg.SalesRole, err)
	}
	logging.FromContext(ctx).Debug().Str("user", user.ID).Str("workspace", st.workspace.Hash).Msg("Assigned sales rep")
	return nil
}

func (e *Engine) resolveMilestone(ctx context.Context, st *rowState, res *Result) error {
	logger := logging.FromContext(ctx)
	row := st.row

	req := edge.NewMilestoneRequest(
		row.Get(report.ColPositionPath),
		row.Get(report.ColDropDescription),
		row.Get(report.ColStartDate),
		row.Get(report.ColEndDate),
		edge.F(constants.FieldDropID, st.dropID),
		edge.F(constants.FieldCustomUnitFeatures, row.Get(report.ColCustomUnitFeature)),
		edge.F(constants.FieldKPI, row.Get(report.ColLineItemKPI)),
		edge.F(constants.FieldDropCost, row.Get(report.ColSoldAmount)),
	)

	ms, ok := st.workspace.FindMilestone(st.dropID)
	if !ok {
		hash, err := e.collab.CreateMilestone(ctx, st.workspace.Hash, req)
		if err != nil {
			return errors.WrapResource("create", KindMilestone, st.dropID, err)
		}
		ms = snapshot.NewMilestone(hash, st.dropID)
		if err := st.workspace.AddMilestone(ms); err != nil {
			return err
		}
		res.Created[KindMilestone]++
		e.emit(Event{Type: EventEntityCreated, Row: row.Number, Kind: KindMilestone, ID: hash})
		logger.Info().Str("milestone", hash).Msg("Created milestone")
	} else if err := e.collab.UpdateMilestone(ctx, ms.Hash, req); err != nil {
		if isRunFatal(err) {
			return err
		}
		e.warn(ctx, res, row.Number, KindMilestone, &errors.UpdateWarning{Entity: KindMilestone, ID: ms.Hash, Err: err})
	} else {
		res.MilestoneUpdates++
		e.emit(Event{Type: EventMilestoneUpdated, Row: row.Number, Kind: KindMilestone, ID: ms.Hash})
	}

	if row.Get(report.ColMilestoneID) != "" {
		return nil
	}
	linked, err := e.link(ctx, fattail.KindDrop, e.cfg.MilestoneProperty, &st.drop.DynamicPropertyValues, ms.Hash)
	if err != nil || !linked {
		return err
	}
	if err := e.campaign.UpdateDrop(ctx, st.drop); err != nil {
		return errors.WrapResource("update", KindDrop, st.dropID, err)
	}
	res.Linked[KindDrop]++
	e.emit(Event{Type: EventRecordLinked, Row: row.Number, Kind: KindDrop, ID: st.dropID})
	logger.Info().Str("milestone", ms.Hash).Msg("Linked drop to milestone")
	return nil
}

// link writes handle into the named dynamic property of a record. It reports
// false, and changes nothing, when the record already carries a value.
func (e *Engine) link(ctx context.Context, kind fattail.RecordKind, property string, values *fattail.DynamicPropertyValues, handle string) (bool, error) {
	id, err := e.props.MustResolveID(ctx, kind, property)
	if err != nil {
		return false, err
	}
	if existing, ok := properties.Value(values.Items, id); ok && existing != "" {
		logging.FromContext(ctx).Debug().
			Str("kind", string(kind)).
			Str("value", existing).
			Msg("Record already linked, report column was stale")
		return false, nil
	}
	values.Items = properties.Merge(values.Items, id, handle)
	return true, nil
}
