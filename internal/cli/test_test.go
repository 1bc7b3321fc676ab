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

func runTestCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// copyScenario places a scenario and the catalog it references in a
// fresh directory tree.
func copyScenario(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	catalog, err := os.ReadFile("testdata/catalog.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "catalog.yaml"), catalog, 0o644))

	data, err := os.ReadFile(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	return dir
}

func TestTest_SingleScenario(t *testing.T) {
	out, err := runTestCmd(t, &RootOptions{Format: "text"}, "testdata/scenarios/adults.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTest_DirectoryWithFailure(t *testing.T) {
	out, err := runTestCmd(t, &RootOptions{Format: "text"}, "testdata/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ adults")
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "3 rows for everyone")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTest_Filter(t *testing.T) {
	out, err := runTestCmd(t, &RootOptions{Format: "text"}, "testdata/scenarios", "--filter", "adu*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTest_JSON(t *testing.T) {
	out, err := runTestCmd(t, &RootOptions{Format: "json"}, "testdata/scenarios")
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Failed)
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := copyScenario(t, "adults.yaml")

	out, err := runTestCmd(t, &RootOptions{Format: "text"}, dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults (golden updated)")

	golden := filepath.Join(dir, "golden", "adults.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"adults"`)

	_, err = runTestCmd(t, &RootOptions{Format: "text"}, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}"), 0o644))
	out, err = runTestCmd(t, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTest_MissingPath(t *testing.T) {
	_, err := runTestCmd(t, &RootOptions{Format: "text"}, "testdata/nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_NoScenarios(t *testing.T) {
	out, err := runTestCmd(t, &RootOptions{Format: "text"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}
