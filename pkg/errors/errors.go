// Package errors provides custom error types for the fattailsync system.
// These errors enable better error handling, programmatic error checking,
// and a clear split between run-fatal failures and row-level warnings.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library functions, re-exported so callers need
// only this package.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the fattailsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates that a remote system is temporarily unavailable
	ErrUnavailable = errors.New("remote system unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrReportNotFound indicates the requested saved report does not exist
	ErrReportNotFound = errors.New("report not found")

	// ErrReportTimeout indicates a report job never reached the done state
	ErrReportTimeout = errors.New("report timed out")

	// ErrWarning marks non-fatal conditions that are logged and counted
	ErrWarning = errors.New("warning")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ReportNotFoundError is returned when the named saved report is absent.
// It is terminal: the run stops and nothing is retried.
type ReportNotFoundError struct {
	Name      string
	Available int
}

// Error implements the error interface
func (e *ReportNotFoundError) Error() string {
	return fmt.Sprintf("saved report %q not found among %d reports", e.Name, e.Available)
}

// Is implements errors.Is support
func (e *ReportNotFoundError) Is(target error) bool {
	return target == ErrReportNotFound || target == ErrNotFound
}

// ReportTimeoutError is returned when a report job does not finish within its budget.
type ReportTimeoutError struct {
	JobID      string
	LastStatus string
	Elapsed    time.Duration
	Timeout    time.Duration
}

// Error implements the error interface
func (e *ReportTimeoutError) Error() string {
	return fmt.Sprintf("report job %s not done after %s (timeout %s, last status %q)",
		e.JobID, e.Elapsed.Round(time.Millisecond), e.Timeout, e.LastStatus)
}

// Is implements errors.Is support
func (e *ReportTimeoutError) Is(target error) bool {
	return target == ErrReportTimeout || target == ErrTimeout
}

// APIError represents a failed call to one of the remote systems
type APIError struct {
	System     string // "fattail" or "edge"
	Operation  string // RPC operation name or REST path
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.System, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed: %s", e.System, e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(system, operation string, statusCode int, message string) *APIError {
	return &APIError{
		System:     system,
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
	}
}

// UpdateWarning records a rejected update that does not stop row processing.
type UpdateWarning struct {
	Entity string
	ID     string
	Err    error
}

// Error implements the error interface
func (e *UpdateWarning) Error() string {
	return fmt.Sprintf("update of %s %s failed: %v", e.Entity, e.ID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *UpdateWarning) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *UpdateWarning) Is(target error) bool {
	return target == ErrWarning
}

// LookupWarning records a lookup (user, role) that found nothing.
type LookupWarning struct {
	Kind string
	Key  string
}

// Error implements the error interface
func (e *LookupWarning) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is implements errors.Is support
func (e *LookupWarning) Is(target error) bool {
	return target == ErrWarning || target == ErrNotFound
}

// RowError ties a failure to the report row and the pipeline stage it happened in.
type RowError struct {
	Row   int
	Stage string
	Err   error
}

// Error implements the error interface
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d failed at %s: %v", e.Row, e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RowError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "json", "xml"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "download"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "fetch", "link"
	Resource  string // "account", "workspace", "milestone", "client", "order", "drop"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnavailable checks if an error indicates the remote system is unavailable
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsWarning checks if an error is a non-fatal warning
func IsWarning(err error) bool {
	return errors.Is(err, ErrWarning)
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(system, operation string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		System:     system,
		Operation:  operation,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
