package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlfuse/internal/queryir"
)

var wantDDL = []string{
	"CREATE TABLE customers (Id INTEGER, Name TEXT, Age INTEGER)",
	"CREATE TABLE orders (Id INTEGER, CustomerId INTEGER, Total INTEGER, Paid INTEGER)",
}

func TestLoad_Formats(t *testing.T) {
	for _, path := range []string{"testdata", "testdata/catalog.cue", "testdata/catalog.yaml"} {
		t.Run(path, func(t *testing.T) {
			catalog, err := Load(path)
			require.NoError(t, err)

			require.Len(t, catalog.Tables(), 2)
			customers, ok := catalog.Table("customers")
			require.True(t, ok)
			assert.Equal(t, []queryir.ColumnDef{
				{Name: "Id", Kind: queryir.KindInt},
				{Name: "Name", Kind: queryir.KindString},
				{Name: "Age", Kind: queryir.KindInt},
			}, customers.Defs())

			assert.Equal(t, wantDDL, catalog.SQLiteDDL())
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("testdata/missing.cue")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestParseCUE_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unknown type", `table: t: {a: "float"}`, ErrCodeInvalidType},
		{"non-string type", `table: t: {a: 3}`, ErrCodeInvalidType},
		{"empty table", `table: t: {}`, ErrCodeEmptyTable},
		{"syntax error", `table: t: {`, ErrCodeBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.src), "inline.cue")
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}

func TestParseCUE_ErrorCarriesPosition(t *testing.T) {
	_, err := ParseCUE([]byte("table: t: {\n\ta: \"float\"\n}\n"), "inline.cue")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, loadErr.Pos.IsValid())
	assert.Contains(t, err.Error(), "inline.cue:2:")
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unknown type", "tables:\n  - name: t\n    columns:\n      - {name: a, type: real}\n", ErrCodeInvalidType},
		{"no columns", "tables:\n  - name: t\n", ErrCodeEmptyTable},
		{"duplicate table", "tables:\n  - name: t\n    columns: [{name: a, type: int}]\n  - name: t\n    columns: [{name: a, type: int}]\n", ErrCodeDuplicateTable},
		{"duplicate column", "tables:\n  - name: t\n    columns: [{name: a, type: int}, {name: a, type: int}]\n", ErrCodeGeneric},
		{"bad yaml", "tables: [", ErrCodeLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src))
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}
