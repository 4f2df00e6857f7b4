package snapshot

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

type fakeSource struct {
	accounts   []edge.Account
	workspaces map[string][]edge.Workspace
	milestones map[string][]edge.Milestone

	milestoneCalls []string
	err            error
}

func (f *fakeSource) Accounts(context.Context) ([]edge.Account, error) {
	return f.accounts, f.err
}

func (f *fakeSource) Workspaces(_ context.Context, accountID string) ([]edge.Workspace, error) {
	return f.workspaces[accountID], nil
}

func (f *fakeSource) Milestones(_ context.Context, workspaceID string) ([]edge.Milestone, error) {
	f.milestoneCalls = append(f.milestoneCalls, workspaceID)
	return f.milestones[workspaceID], nil
}

func fields(kv ...string) edge.CustomFields {
	var out []edge.Field
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, edge.F(kv[i], kv[i+1]))
	}
	return edge.NewCustomFields(out...)
}

func TestBuild(t *testing.T) {
	src := &fakeSource{
		accounts: []edge.Account{
			{ID: "acct-1", Name: "Acme", CustomFields: fields("c_client_id", "42")},
			{ID: "acct-2", Name: "No key"},
			{ID: "acct-3", Name: "Blank key", CustomFields: fields("c_client_id", "")},
			{ID: "acct-4", Name: "Dup", CustomFields: fields("c_client_id", "42")},
		},
		workspaces: map[string][]edge.Workspace{
			"acct-1": {
				{ID: "ws-1", Name: "Spring", CustomFields: fields("c_order_id", "900")},
				{ID: "ws-2", Name: "Spring (Deleted)", CustomFields: fields("c_order_id", "901")},
				{ID: "ws-3", Name: "Loose", CustomFields: fields("other", "x")},
			},
		},
		milestones: map[string][]edge.Milestone{
			"ws-1": {
				{ID: "m-1", CustomFields: fields("c_drop_id", "7")},
				{ID: "m-2"},
			},
			"ws-2": {
				{ID: "m-3", CustomFields: fields("c_drop_id", "8")},
			},
		},
	}

	tree, err := Build(context.Background(), src, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, Stats{Accounts: 1, Workspaces: 1, Milestones: 1}, tree.Stats())

	acct, ok := tree.FindAccount("42")
	require.True(t, ok)
	assert.Equal(t, "acct-1", acct.Hash)

	_, ok = acct.FindWorkspace("901")
	assert.False(t, ok)
	assert.Equal(t, []string{"ws-1"}, src.milestoneCalls)
}

func TestBuildCustomPattern(t *testing.T) {
	src := &fakeSource{
		accounts: []edge.Account{{ID: "acct-1", CustomFields: fields("c_client_id", "42")}},
		workspaces: map[string][]edge.Workspace{
			"acct-1": {
				{ID: "ws-1", Name: "Undeleted plans", CustomFields: fields("c_order_id", "1")},
				{ID: "ws-2", Name: "ARCHIVED", CustomFields: fields("c_order_id", "2")},
			},
		},
	}

	opts := DefaultOptions()
	tree, err := Build(context.Background(), src, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Stats().Workspaces)

	opts.DeletedPattern = regexp.MustCompile(`(?i)archived`)
	tree, err = Build(context.Background(), src, opts)
	require.NoError(t, err)
	acct, _ := tree.FindAccount("42")
	_, ok := acct.FindWorkspace("2")
	assert.False(t, ok)
}

func TestBuildPropagatesErrors(t *testing.T) {
	src := &fakeSource{err: errors.NewAPIError("edge", "GET accounts", 503, "down")}

	_, err := Build(context.Background(), src, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestBuild_LogsDuplicates(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	src := &fakeSource{
		accounts: []edge.Account{
			{ID: "acct-1", CustomFields: fields("c_client_id", "42")},
			{ID: "acct-2", CustomFields: fields("c_client_id", "42")},
		},
		workspaces: map[string][]edge.Workspace{
			"acct-1": {{ID: "ws-1", Name: "Spring", CustomFields: fields("c_order_id", "900")}},
		},
		milestones: map[string][]edge.Milestone{
			"ws-1": {
				{ID: "m-1", CustomFields: fields("c_drop_id", "7")},
				{ID: "m-2", CustomFields: fields("c_drop_id", "7")},
			},
		},
	}

	tree, err := Build(ctx, src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Stats{Accounts: 1, Workspaces: 1, Milestones: 1}, tree.Stats())

	assert.Equal(t, 1, testLogger.CountContaining("Duplicate account for client"))
	assert.Equal(t, 1, testLogger.CountContaining("Duplicate milestone for drop"))
	testLogger.AssertContains(t, `"accounts":1`)
	testLogger.AssertNotContains(t, "Duplicate workspace")
}
