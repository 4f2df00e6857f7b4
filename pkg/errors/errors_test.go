package errors_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	pkgerrors "github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "client",
			ID:       "42",
		}
		assert.Equal(t, "client with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("drop", "7")
		wrapped := fmt.Errorf("row 3: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("client_id", "", "cannot be empty")
		assert.Equal(t, "validation failed for field client_id: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})
}

func TestReportErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := &pkgerrors.ReportNotFoundError{Name: "Edge Sync", Available: 3}
		assert.Contains(t, err.Error(), "Edge Sync")
		assert.True(t, errors.Is(err, pkgerrors.ErrReportNotFound))
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.False(t, pkgerrors.IsTimeout(err))
	})

	t.Run("timeout", func(t *testing.T) {
		err := &pkgerrors.ReportTimeoutError{
			JobID:      "991",
			LastStatus: "Running",
			Elapsed:    301 * time.Second,
			Timeout:    300 * time.Second,
		}
		assert.Contains(t, err.Error(), "991")
		assert.Contains(t, err.Error(), "Running")
		assert.True(t, errors.Is(err, pkgerrors.ErrReportTimeout))
		assert.True(t, pkgerrors.IsTimeout(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("edge", "accounts", 429, "slow down")
		assert.Contains(t, err.Error(), "edge")
		assert.Contains(t, err.Error(), "429")
		assert.True(t, pkgerrors.IsRateLimited(err))
		assert.False(t, pkgerrors.IsUnavailable(err))
	})

	t.Run("server error", func(t *testing.T) {
		err := pkgerrors.NewAPIError("fattail", "GetClient", 503, "maintenance")
		assert.True(t, pkgerrors.IsUnavailable(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		base := errors.New("connection reset")
		err := pkgerrors.WrapAPI("fattail", "GetOrder", 0, base)
		var apiErr *pkgerrors.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "GetOrder", apiErr.Operation)
		assert.Equal(t, base, errors.Unwrap(err))
		assert.Nil(t, pkgerrors.WrapAPI("fattail", "GetOrder", 0, nil))
	})
}

func TestWarnings(t *testing.T) {
	update := &pkgerrors.UpdateWarning{Entity: "milestone", ID: "m1", Err: errors.New("rejected")}
	assert.True(t, pkgerrors.IsWarning(update))
	assert.Contains(t, update.Error(), "m1")

	lookup := &pkgerrors.LookupWarning{Kind: "user", Key: "john smith"}
	assert.True(t, pkgerrors.IsWarning(lookup))
	assert.True(t, pkgerrors.IsNotFound(lookup))
	assert.Equal(t, `user "john smith" not found`, lookup.Error())

	assert.False(t, pkgerrors.IsWarning(errors.New("plain")))
}

func TestRowError(t *testing.T) {
	base := pkgerrors.NewAPIError("edge", "accounts", 500, "boom")
	err := &pkgerrors.RowError{Row: 4, Stage: "resolve_account", Err: base}
	assert.Equal(t, "row 4 failed at resolve_account: edge accounts failed (status 500): boom", err.Error())
	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("properties", "no dynamic property named CD Workspace ID", nil)
	assert.Contains(t, err.Error(), "properties")
	assert.True(t, pkgerrors.IsConfigError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, pkgerrors.IsConfigError(errors.New("other")))
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "tmp/12.csv", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "tmp/12.csv")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("download", "https://example.com/r.csv", errors.New("eof"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "download", ioErr.Operation)
		assert.Nil(t, pkgerrors.WrapIO("download", "x", nil))
	})
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("create", "account", "42", pkgerrors.ErrAlreadyExists)
	var resErr *pkgerrors.ResourceError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "account", resErr.Resource)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
}

func TestParseError(t *testing.T) {
	err := &pkgerrors.ParseError{Format: "csv", File: "tmp/1.csv", Line: 3, Message: "bare quote"}
	assert.Equal(t, "parse error in csv at tmp/1.csv:3: bare quote", err.Error())

	wrapped := pkgerrors.WrapParse("xml", "GetClient response", errors.New("unexpected EOF"))
	assert.Contains(t, wrapped.Error(), "GetClient response")
}
