package reconcile

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/internal/properties"
	"github.com/centraldesktop/fattailsync/internal/report"
	"github.com/centraldesktop/fattailsync/internal/snapshot"
)

const (
	workspacePropID = 10
	milestonePropID = 20
)

type fakeCampaign struct {
	clients map[int]*fattail.Client
	orders  map[int]*fattail.Order
	drops   map[int]*fattail.Drop

	clientUpdates []*fattail.Client
	orderUpdates  []*fattail.Order
	dropUpdates   []*fattail.Drop

	getOrderErr error
}

func newFakeCampaign() *fakeCampaign {
	return &fakeCampaign{
		clients: map[int]*fattail.Client{},
		orders:  map[int]*fattail.Order{},
		drops:   map[int]*fattail.Drop{},
	}
}

func (f *fakeCampaign) GetClient(_ context.Context, id int) (*fattail.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %d not found", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaign) GetOrder(_ context.Context, id int) (*fattail.Order, error) {
	if f.getOrderErr != nil {
		return nil, f.getOrderErr
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d not found", id)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeCampaign) GetDrop(_ context.Context, id int) (*fattail.Drop, error) {
	d, ok := f.drops[id]
	if !ok {
		return nil, fmt.Errorf("drop %d not found", id)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeCampaign) UpdateClient(_ context.Context, c *fattail.Client) error {
	f.clientUpdates = append(f.clientUpdates, c)
	return nil
}

func (f *fakeCampaign) UpdateOrder(_ context.Context, o *fattail.Order) error {
	f.orderUpdates = append(f.orderUpdates, o)
	return nil
}

func (f *fakeCampaign) UpdateDrop(_ context.Context, d *fattail.Drop) error {
	f.dropUpdates = append(f.dropUpdates, d)
	return nil
}

type addUsersCall struct {
	workspace string
	role      string
	users     []string
}

type fakeCollab struct {
	users      []edge.User
	userCalls  int
	seq        int
	accounts   []edge.AccountRequest
	workspaces []edge.WorkspaceRequest
	milestones []edge.MilestoneRequest
	updates    []string
	addUsers   []addUsersCall

	updateErr error
	createErr error
}

func (f *fakeCollab) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeCollab) Users(context.Context) ([]edge.User, error) {
	f.userCalls++
	return f.users, nil
}

func (f *fakeCollab) CreateAccount(_ context.Context, req edge.AccountRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.accounts = append(f.accounts, req)
	return f.next("acct"), nil
}

func (f *fakeCollab) CreateWorkspace(_ context.Context, _ string, req edge.WorkspaceRequest) (string, error) {
	f.workspaces = append(f.workspaces, req)
	return f.next("ws"), nil
}

func (f *fakeCollab) CreateMilestone(_ context.Context, _ string, req edge.MilestoneRequest) (string, error) {
	f.milestones = append(f.milestones, req)
	return f.next("ms"), nil
}

func (f *fakeCollab) UpdateMilestone(_ context.Context, id string, _ edge.MilestoneRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	return nil
}

func (f *fakeCollab) AddUsersToRole(_ context.Context, workspaceID, roleID string, userIDs []string) error {
	f.addUsers = append(f.addUsers, addUsersCall{workspace: workspaceID, role: roleID, users: userIDs})
	return nil
}

type fakeLister struct{}

func (fakeLister) GetDynamicProperties(_ context.Context, kind fattail.RecordKind) ([]fattail.DynamicProperty, error) {
	switch kind {
	case fattail.KindOrder:
		return []fattail.DynamicProperty{{DynamicPropertyID: workspacePropID, DisplayName: "CD Workspace ID"}}, nil
	case fattail.KindDrop:
		return []fattail.DynamicProperty{{DynamicPropertyID: milestonePropID, DisplayName: "CD Milestone ID"}}, nil
	}
	return nil, nil
}

// rowValues builds a complete report row; overrides replace single columns.
func rowValues(clientID, orderID, dropID string, overrides map[string]string) map[string]string {
	v := map[string]string{
		report.ColClientID:          clientID,
		report.ColCampaignID:        orderID,
		report.ColDropID:            dropID,
		report.ColIOStatus:          "Active",
		report.ColCampaignStartDate: "2015-06-01",
		report.ColCampaignEndDate:   "2015-06-30",
		report.ColCampaignName:      "Spring Launch",
		report.ColPositionPath:      "Homepage / Leaderboard",
		report.ColDropDescription:   "Run of site",
		report.ColStartDate:         "2015-06-01",
		report.ColEndDate:           "2015-06-15",
		report.ColSoldAmount:        "1500.00",
		report.ColSalesRep:          "",
		report.ColCustomUnitFeature: "Rich media",
		report.ColLineItemKPI:       "CTR",
		report.ColWorkspaceID:       "",
		report.ColMilestoneID:       "",
	}
	for k, val := range overrides {
		v[k] = val
	}
	return v
}

// buildRows renders rows as CSV and parses them back into report rows.
func buildRows(t *testing.T, rows ...map[string]string) []report.Row {
	t.Helper()
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	require.NoError(t, w.Write(report.RequiredColumns))
	for _, r := range rows {
		record := make([]string, len(report.RequiredColumns))
		for i, col := range report.RequiredColumns {
			record[i] = r[col]
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	require.NoError(t, w.Error())

	ds, err := report.Parse(strings.NewReader(sb.String()), report.RequiredColumns)
	require.NoError(t, err)
	return ds.Rows()
}

type harness struct {
	campaign *fakeCampaign
	collab   *fakeCollab
	tree     *snapshot.Tree
	events   []Event
}

func newHarness() *harness {
	h := &harness{
		campaign: newFakeCampaign(),
		collab:   &fakeCollab{},
		tree:     snapshot.NewTree(),
	}
	h.campaign.clients[42] = &fattail.Client{ClientID: 42, Name: "Acme"}
	h.campaign.orders[900] = &fattail.Order{OrderID: 900, ClientID: 42}
	h.campaign.orders[901] = &fattail.Order{OrderID: 901, ClientID: 42}
	h.campaign.drops[7] = &fattail.Drop{DropID: 7, OrderID: 900}
	h.campaign.drops[8] = &fattail.Drop{DropID: 8, OrderID: 901}
	return h
}

func (h *harness) engine(cfg Config) *Engine {
	return New(h.campaign, h.collab, properties.NewResolver(fakeLister{}), h.tree, cfg,
		WithObserver(func(ev Event) { h.events = append(h.events, ev) }))
}

func (h *harness) countEvents(typ EventType) int {
	n := 0
	for _, ev := range h.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
