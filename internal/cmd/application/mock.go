package application

import (
	"github.com/rs/zerolog"

	"github.com/centraldesktop/fattailsync"
)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    SyncerFunc: func(...fattailsync.Option) (fattailsync.Syncer, error) {
//	        return fakeSyncer, nil
//	    },
//	}
//	cmd := reports.NewCommand(mock)
type Mock struct {
	SyncerFunc       func(opts ...fattailsync.Option) (fattailsync.Syncer, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Syncer returns a syncer using the mock function or nil.
func (m *Mock) Syncer(opts ...fattailsync.Option) (fattailsync.Syncer, error) {
	if m.SyncerFunc != nil {
		return m.SyncerFunc(opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns the commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}

// Ensure Mock implements Application.
var _ Application = (*Mock)(nil)
