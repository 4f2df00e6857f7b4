package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// isolate keeps the developer's own config files out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "")
}

func validConfig() *Config {
	return &Config{
		FatTail: FatTailConfig{URL: "https://api.fattail.test/v1/service.svc"},
		Edge: EdgeConfig{
			URL:       "https://edge.test/api/v1/",
			Token:     "secret",
			RateLimit: 10,
			PageSize:  100,
		},
		Sync: SyncConfig{
			TmpDir:            "tmp/",
			PollInterval:      time.Second,
			ReportTimeout:     time.Minute,
			WorkspaceProperty: "CD Workspace ID",
			MilestoneProperty: "CD Milestone ID",
		},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, float64(constants.DefaultRateLimit), config.Edge.RateLimit)
	assert.Equal(t, constants.DefaultPageSize, config.Edge.PageSize)
	assert.Equal(t, constants.DefaultTmpDir, config.Sync.TmpDir)
	assert.Equal(t, constants.DefaultPollInterval, config.Sync.PollInterval)
	assert.Equal(t, constants.DefaultReportTimeout, config.Sync.ReportTimeout)
	assert.Equal(t, constants.DefaultWorkspaceProperty, config.Sync.WorkspaceProperty)
	assert.Equal(t, constants.DefaultMilestoneProperty, config.Sync.MilestoneProperty)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.LogLevel)
}

func TestLoadConfig_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("FATTAILSYNC_FATTAIL_URL", "https://api.fattail.test/v1/service.svc")
	t.Setenv("FATTAILSYNC_EDGE_TOKEN", "from-env")
	t.Setenv("FATTAILSYNC_EDGE_PAGE_SIZE", "250")
	t.Setenv("FATTAILSYNC_SYNC_POLL_INTERVAL", "2s")
	t.Setenv("FATTAILSYNC_SYNC_FAIL_FAST", "true")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.fattail.test/v1/service.svc", config.FatTail.URL)
	assert.Equal(t, "from-env", config.Edge.Token)
	assert.Equal(t, 250, config.Edge.PageSize)
	assert.Equal(t, 2*time.Second, config.Sync.PollInterval)
	assert.True(t, config.Sync.FailFast)
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "fattailsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fattail:
  url: https://api.fattail.test/v1/service.svc
  username: sync
edge:
  url: https://edge.test/api/v1/
  token: file-token
sync:
  sales_role: role-sales
  report_timeout: 10m
metrics:
  textfile: /var/lib/node_exporter/fattailsync.prom
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "sync", config.FatTail.Username)
	assert.Equal(t, "file-token", config.Edge.Token)
	assert.Equal(t, "role-sales", config.Sync.SalesRole)
	assert.Equal(t, 10*time.Minute, config.Sync.ReportTimeout)
	assert.Equal(t, "/var/lib/node_exporter/fattailsync.prom", config.Metrics.Textfile)
	require.NoError(t, config.Validate())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "fattailsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edge:\n  token: file-token\n"), 0o600))
	t.Setenv("FATTAILSYNC_EDGE_TOKEN", "env-token")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", config.Edge.Token)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsConfigError(err))
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing fattail url", func(c *Config) { c.FatTail.URL = "" }, "FatTail.URL"},
		{"bad edge url", func(c *Config) { c.Edge.URL = "not a url" }, "Edge.URL"},
		{"missing token", func(c *Config) { c.Edge.Token = "" }, "Edge.Token"},
		{"page size too large", func(c *Config) { c.Edge.PageSize = 1000 }, "Edge.PageSize"},
		{"zero poll interval", func(c *Config) { c.Sync.PollInterval = 0 }, "Sync.PollInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	c := &Config{Format: "yaml", LogLevel: "warn"}

	c.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, c.Verbose)
	assert.True(t, c.NoColor)
	assert.Equal(t, "yaml", c.Format)
	assert.Equal(t, "warn", c.LogLevel)

	c.UpdateFromFlags(false, false, false, "json", "debug")
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, "debug", c.LogLevel)
}
