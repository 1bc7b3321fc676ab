package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"exit error", NewExitError(ExitCommandError, "bad path"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitSuccess, "ok")), ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "writing output", cause)
	assert.Equal(t, "writing output: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestOutputFormatter_JSONCarriesTraceID(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Error("E005", "not found", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E005", resp.Error.Code)

	id, err := uuid.Parse(resp.TraceID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}
	require.NoError(t, f.Error("E010", "no catalog", "details here"))
	f.VerboseLog("checked %d", 3)

	assert.Equal(t, "Error [E010]: no catalog\nDetails: details here\nchecked 3\n", buf.String())
}
