// Package app provides the application context and dependency management
// for the fattailsync CLI: configuration, logging and the lazily built syncer.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/centraldesktop/fattailsync"
	"github.com/centraldesktop/fattailsync/internal/cmd/application"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// App represents the fattailsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Syncer instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	syncer fattailsync.Syncer
}

// Ensure App implements Application.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Syncer returns the default syncer, creating it lazily if needed. With
// options, a new syncer is built from the configuration plus opts and is
// not cached.
func (a *App) Syncer(opts ...fattailsync.Option) (fattailsync.Syncer, error) {
	if len(opts) > 0 {
		return a.newSyncer(opts...)
	}

	a.mu.RLock()
	if a.syncer != nil {
		s := a.syncer
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.syncer != nil {
		return a.syncer, nil
	}

	s, err := a.newSyncer()
	if err != nil {
		return nil, err
	}
	a.syncer = s
	return s, nil
}

func (a *App) newSyncer(extra ...fattailsync.Option) (fattailsync.Syncer, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	opts := append(a.syncerOptions(), extra...)
	s, err := fattailsync.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "syncer", "", err)
	}
	return s, nil
}

// syncerOptions constructs syncer options from the app configuration.
func (a *App) syncerOptions() []fattailsync.Option {
	c := a.config
	opts := []fattailsync.Option{
		fattailsync.WithFatTail(c.FatTail.URL, c.FatTail.Username, c.FatTail.Password),
		fattailsync.WithEdge(c.Edge.URL, c.Edge.Token),
		fattailsync.WithEdgeRateLimit(c.Edge.RateLimit),
		fattailsync.WithEdgePageSize(c.Edge.PageSize),
		fattailsync.WithTmpDir(c.Sync.TmpDir),
		fattailsync.WithKeepTmpDir(c.Sync.KeepTmpDir),
		fattailsync.WithReportPolling(c.Sync.PollInterval, c.Sync.ReportTimeout),
		fattailsync.WithWorkspaceTemplate(c.Sync.WorkspaceTemplate),
		fattailsync.WithSalesRole(c.Sync.SalesRole),
		fattailsync.WithLinkProperties(c.Sync.WorkspaceProperty, c.Sync.MilestoneProperty),
		fattailsync.WithFailFast(c.Sync.FailFast),
		fattailsync.WithMetricsTextfile(c.Metrics.Textfile),
	}
	if c.Sync.DeletedPattern != "" {
		opts = append(opts, fattailsync.WithDeletedPattern(c.Sync.DeletedPattern))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSyncer sets a custom syncer instance (useful for testing).
func WithSyncer(s fattailsync.Syncer) Option {
	return func(a *App) error {
		a.syncer = s
		return nil
	}
}
