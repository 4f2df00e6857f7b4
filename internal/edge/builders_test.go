package edge

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGolden(t *testing.T, name string, payload any) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

func TestAccountRequestGolden(t *testing.T) {
	assertGolden(t, "account_request", NewAccountRequest("Acme", F("c_client_id", "42")))
}

func TestWorkspaceRequestGolden(t *testing.T) {
	req := NewWorkspaceRequest("Spring Launch", "tmpl-1",
		F("c_order_id", "900"),
		F("c_campaign_status", "Active"),
		F("c_campaign_start_date", "2015-06-01"),
		F("c_campaign_end_date", "2015-06-30"),
	)
	assertGolden(t, "workspace_request", req)
}

func TestMilestoneRequestGolden(t *testing.T) {
	req := NewMilestoneRequest("Homepage / Leaderboard", "Run of site", "2015-06-01", "2015-06-15",
		F("c_drop_id", "7"),
		F("c_custom_unit_features", "Rich media"),
		F("c_kpi", "CTR"),
		F("c_drop_cost_new", "1500.00"),
	)
	assertGolden(t, "milestone_request", req)
}

func TestAddUsersRequestGolden(t *testing.T) {
	assertGolden(t, "add_users_request", AddUsersRequest{Users: []string{"u-1", "u-2"}})
}

func TestNewCustomFieldsKeepsOrder(t *testing.T) {
	fields := NewCustomFields(F("b", "2"), F("a", "1"))

	require.Len(t, fields, 2)
	assert.Equal(t, "b", fields[0].FieldAPIID)
	assert.Equal(t, "a", fields[1].FieldAPIID)

	v, ok := fields.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = fields.Lookup("missing")
	assert.False(t, ok)

	assert.NotNil(t, NewCustomFields())
}

func TestFlexStringDecodesNumbers(t *testing.T) {
	var fields CustomFields
	err := json.Unmarshal([]byte(`[{"fieldApiId":"c_client_id","value":42},{"fieldApiId":"c_kpi","value":null},{"fieldApiId":"c_order_id","value":"900"}]`), &fields)
	require.NoError(t, err)

	assert.Equal(t, FlexString("42"), fields[0].Value)
	assert.Equal(t, FlexString(""), fields[1].Value)
	assert.Equal(t, FlexString("900"), fields[2].Value)
}
