package fattailsync

import (
	"net/http"
	"time"

	"github.com/centraldesktop/fattailsync/internal/edge"
	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// Option is a function that configures a Syncer
type Option func(*config) error

// config holds the Syncer settings
type config struct {
	fattail fattail.Config
	edge    edge.Config

	tmpDir        string
	keepTmpDir    bool
	pollInterval  time.Duration
	reportTimeout time.Duration

	workspaceTemplate string
	salesRole         string
	workspaceProperty string
	milestoneProperty string
	deletedPattern    string
	failFast          bool

	metricsTextfile string
}

func defaultConfig() *config {
	return &config{
		edge: edge.Config{
			RateLimit: constants.DefaultRateLimit,
			PageSize:  constants.DefaultPageSize,
		},
		tmpDir:            constants.DefaultTmpDir,
		pollInterval:      constants.DefaultPollInterval,
		reportTimeout:     constants.DefaultReportTimeout,
		workspaceProperty: constants.DefaultWorkspaceProperty,
		milestoneProperty: constants.DefaultMilestoneProperty,
		deletedPattern:    constants.DefaultDeletedPattern,
	}
}

func (c *config) validate() error {
	if c.fattail.URL == "" {
		return errors.NewConfigError("fattail", "url is required", nil)
	}
	if c.edge.URL == "" {
		return errors.NewConfigError("edge", "url is required", nil)
	}
	return nil
}

// WithFatTail configures the FatTail SOAP endpoint and its basic auth credentials
func WithFatTail(url, username, password string) Option {
	return func(c *config) error {
		c.fattail.URL = url
		c.fattail.Username = username
		c.fattail.Password = password
		return nil
	}
}

// WithEdge configures the Edge API base URL and its bearer token
func WithEdge(url, token string) Option {
	return func(c *config) error {
		c.edge.URL = url
		c.edge.Token = token
		return nil
	}
}

// WithEdgeRateLimit caps Edge requests per second. Zero disables the limit.
func WithEdgeRateLimit(rps float64) Option {
	return func(c *config) error {
		if rps < 0 {
			return errors.NewValidationError("edge.rate_limit", rps, "must not be negative")
		}
		c.edge.RateLimit = rps
		return nil
	}
}

// WithEdgePageSize sets the page size for Edge list calls
func WithEdgePageSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.NewValidationError("edge.page_size", n, "must be positive")
		}
		c.edge.PageSize = n
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for both remote systems
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.fattail.HTTPClient = hc
		c.edge.HTTPClient = hc
		return nil
	}
}

// WithTmpDir sets where downloaded reports are staged
func WithTmpDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("sync.tmp_dir", dir, "must not be empty")
		}
		c.tmpDir = dir
		return nil
	}
}

// WithKeepTmpDir leaves the staging directory in place after a pass
func WithKeepTmpDir(keep bool) Option {
	return func(c *config) error {
		c.keepTmpDir = keep
		return nil
	}
}

// WithReportPolling configures the report job poll interval and overall timeout
func WithReportPolling(interval, timeout time.Duration) Option {
	return func(c *config) error {
		if interval <= 0 || timeout <= 0 {
			return errors.NewValidationError("sync.poll_interval", interval, "poll interval and timeout must be positive")
		}
		c.pollInterval = interval
		c.reportTimeout = timeout
		return nil
	}
}

// WithWorkspaceTemplate sets the template new workspaces are created from
func WithWorkspaceTemplate(template string) Option {
	return func(c *config) error {
		c.workspaceTemplate = template
		return nil
	}
}

// WithSalesRole sets the workspace role the row's sales rep is added to
func WithSalesRole(roleID string) Option {
	return func(c *config) error {
		c.salesRole = roleID
		return nil
	}
}

// WithLinkProperties names the order and drop dynamic properties holding Edge handles
func WithLinkProperties(workspace, milestone string) Option {
	return func(c *config) error {
		if workspace != "" {
			c.workspaceProperty = workspace
		}
		if milestone != "" {
			c.milestoneProperty = milestone
		}
		return nil
	}
}

// WithDeletedPattern sets the regular expression marking deleted workspaces by name
func WithDeletedPattern(pattern string) Option {
	return func(c *config) error {
		c.deletedPattern = pattern
		return nil
	}
}

// WithFailFast stops the pass at the first failed row
func WithFailFast(enabled bool) Option {
	return func(c *config) error {
		c.failFast = enabled
		return nil
	}
}

// WithMetricsTextfile writes run metrics to path after every pass
func WithMetricsTextfile(path string) Option {
	return func(c *config) error {
		c.metricsTextfile = path
		return nil
	}
}
