package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraldesktop/fattailsync/internal/cmd/application"
)

func TestVersion(t *testing.T) {
	app := &application.Mock{
		VersionFunc: func() string { return "1.2.0" },
		CommitFunc:  func() string { return "abc123" },
	}

	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "fattailsync version 1.2.0")
	assert.Contains(t, out, "commit: abc123")
	assert.Contains(t, out, "built by: unknown")
}
