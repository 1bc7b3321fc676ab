package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompileCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCompile_Text(t *testing.T) {
	opts := &RootOptions{Format: "text", Dialect: "sqlserver", Catalog: "testdata/catalog.yaml"}
	out, err := runCompileCmd(t, opts, "testdata/queries.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 6 entr(ies) for sqlserver")
	assert.Contains(t, out, "adults:\n  SELECT a0.Id AS Id, a0.Name AS Name FROM customers a0 WHERE (a0.Age > @p0) AND (a0.Name IS NOT NULL) ORDER BY a0.Name ASC\n  @p0 = 18\n")
	assert.Contains(t, out, "rename:\n  UPDATE customers SET Name = @p0 WHERE customers.Id = @id\n")
}

func TestCompile_JSON(t *testing.T) {
	opts := &RootOptions{Format: "json", Dialect: "sqlite", Catalog: "testdata/catalog.yaml"}
	out, err := runCompileCmd(t, opts, "testdata/queries.yaml")
	require.NoError(t, err)

	var resp struct {
		Status  string            `json:"status"`
		Data    CompilationResult `json:"data"`
		TraceID string            `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, "sqlite", resp.Data.Dialect)
	require.Len(t, resp.Data.Entries, 6)

	first := resp.Data.Entries[0]
	assert.Equal(t, "adults", first.Name)
	assert.Equal(t, "query", first.Kind)
	assert.Equal(t, []CompiledParam{{Name: ":p0", Value: float64(18)}}, first.Params)
	assert.Len(t, first.Fingerprint, 64)
	assert.Equal(t, "statement", resp.Data.Entries[3].Kind)
}

func TestCompile_FingerprintsDifferByDialect(t *testing.T) {
	var prints []string
	for _, d := range []string{"sqlserver", "sqlite"} {
		opts := &RootOptions{Format: "json", Dialect: d, Catalog: "testdata/catalog.yaml"}
		out, err := runCompileCmd(t, opts, "testdata/queries.yaml")
		require.NoError(t, err)

		var resp struct {
			Data CompilationResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		prints = append(prints, resp.Data.Entries[0].Fingerprint)
	}
	assert.NotEqual(t, prints[0], prints[1])
}

func TestCompile_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	opts := &RootOptions{Format: "text", Dialect: "sqlserver", Catalog: "testdata/catalog.yaml"}
	out, err := runCompileCmd(t, opts, "testdata/queries.yaml", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote compiled SQL to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Entries, 6)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		catalog  string
		doc      string
		wantCode string
	}{
		{"no catalog", "", "testdata/queries.yaml", ErrCodeNoCatalog},
		{"missing catalog", "testdata/missing.yaml", "testdata/queries.yaml", "E005"},
		{"missing document", "testdata/catalog.yaml", "testdata/missing.yaml", "E005"},
		{"compile error", "testdata/catalog.yaml", "testdata/conflict.yaml", "PARAMETER_CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &RootOptions{Format: "json", Dialect: "sqlserver", Catalog: tt.catalog}
			out, err := runCompileCmd(t, opts, tt.doc)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestCompile_CompileErrorText(t *testing.T) {
	opts := &RootOptions{Format: "text", Dialect: "sqlserver", Catalog: "testdata/catalog.yaml"}
	out, err := runCompileCmd(t, opts, "testdata/conflict.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Compilation failed with 1 error(s)")
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, "clash\n  PARAMETER_CONFLICT: ")
}
