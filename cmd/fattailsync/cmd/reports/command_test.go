package reports

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraldesktop/fattailsync"
	"github.com/centraldesktop/fattailsync/internal/cmd/application"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

type fakeSyncer struct {
	fattailsync.Syncer
	reports []fattailsync.SavedReport
	err     error
}

func (f *fakeSyncer) Reports(context.Context) ([]fattailsync.SavedReport, error) {
	return f.reports, f.err
}

func run(t *testing.T, s fattailsync.Syncer, format string) (string, error) {
	t.Helper()
	app := &application.Mock{
		SyncerFunc: func(...fattailsync.Option) (fattailsync.Syncer, error) {
			return s, nil
		},
		OutputFormatFunc: func() string { return format },
	}
	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestReports_YAML(t *testing.T) {
	s := &fakeSyncer{reports: []fattailsync.SavedReport{
		{SavedReportID: 3, Name: "Edge Sync"},
		{SavedReportID: 4, Name: "Weekly"},
	}}

	out, err := run(t, s, "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "saved_report_id: 3")
	assert.Contains(t, out, "name: Weekly")
}

func TestReports_Table(t *testing.T) {
	s := &fakeSyncer{reports: []fattailsync.SavedReport{{SavedReportID: 3, Name: "Edge Sync"}}}

	out, err := run(t, s, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Edge Sync")
}

func TestReports_Error(t *testing.T) {
	s := &fakeSyncer{err: errors.NewAPIError("fattail", "GetSavedReportList", 401, "unauthorized")}

	_, err := run(t, s, "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GetSavedReportList")
}
