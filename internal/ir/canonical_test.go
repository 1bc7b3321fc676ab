package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"param value string", IRString("Bob"), `"Bob"`},
		{"empty string", "", `""`},
		{"param value int", IRInt(18), "18"},
		{"go int", 7, "7"},
		{"min int64", int64(-9223372036854775808), "-9223372036854775808"},
		{"param value bool", IRBool(false), "false"},
		{"null literal", IRNull{}, "null"},
		{"nil", nil, "null"},
		{"in list", IRArray{IRInt(1), IRInt(2)}, "[1,2]"},
		{"empty list", []any{}, "[]"},
		{"mixed list", []any{"a", int64(1), true}, `["a",1,true]`},
		{"object", IRObject{"p0": IRInt(1)}, `{"p0":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalParamTable(t *testing.T) {
	params := []any{
		map[string]any{"value": int64(18), "name": "@p0"},
		map[string]any{"value": "A%", "name": "@p1"},
	}

	result, err := MarshalCanonical(map[string]any{
		"sql":     "SELECT * FROM customers a0",
		"params":  params,
		"dialect": "sqlserver",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"dialect":"sqlserver","params":[{"name":"@p0","value":18},{"name":"@p1","value":"A%"}],"sql":"SELECT * FROM customers a0"}`,
		string(result))
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"html not escaped", "<a&b>", `"<a&b>"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9
	decomposed := "cafe\u0301"
	result, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(result))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	assert.Error(t, err)

	_, err = MarshalCanonical([]any{1.5})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "array[0]")
}

func TestStatementFingerprint(t *testing.T) {
	params := []any{
		map[string]any{"name": "@p0", "value": int64(1)},
	}

	a, err := StatementFingerprint("sqlserver", "SELECT @p0", params)
	require.NoError(t, err)
	b, err := StatementFingerprint("sqlserver", "SELECT @p0", params)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c, err := StatementFingerprint("sqlite", "SELECT @p0", params)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := StatementFingerprint("sqlserver", "SELECT @p0", []any{
		map[string]any{"name": "@p0", "value": int64(2)},
	})
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}
