package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlfuse/internal/querydoc"
)

func TestRun_Adults(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/adults.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string]int64{"adults": 1, "birthday": 1}, result.Rows)

	require.Len(t, result.Trace, 6)
	for i, e := range result.Trace {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestRun_Conflicts(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/conflicts.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	clash, ok := result.find(EventError, "clash", "sqlite")
	require.True(t, ok)
	assert.Equal(t, "PARAMETER_CONFLICT", clash.Code)
	_, ran := result.Rows["clash"]
	assert.False(t, ran)
}

func TestRun_FailingAssertions(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/adults.yaml")
	require.NoError(t, err)

	s.Assertions = []Assertion{
		{Type: AssertSQL, Entry: "adults", Dialect: "sqlite", SQL: "SELECT 1"},
		{Type: AssertRowCount, Entry: "adults", Count: 5},
		{Type: AssertCompileError, Entry: "adults", Code: "PARAMETER_CONFLICT"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Expected: SELECT 1")
	assert.Contains(t, result.Errors[1], "5 rows for adults")
	assert.Contains(t, result.Errors[2], "compiled without error")
}

func TestRun_BuildError(t *testing.T) {
	s := &Scenario{
		Name:     "broken",
		Catalog:  "testdata/catalog.yaml",
		Queries:  []querydoc.QuerySpec{{Name: "q", From: "missing"}},
		Dialects: []string{"sqlite"},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table "missing"`)
}

func TestRun_SetupFailure(t *testing.T) {
	s := &Scenario{
		Name:    "bad_setup",
		Catalog: "testdata/catalog.yaml",
		Setup:   []querydoc.StatementSpec{{Name: "empty", Insert: "customers"}},
		Queries: []querydoc.QuerySpec{{Name: "q", From: "customers"}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup empty")
}

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/adults.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}
