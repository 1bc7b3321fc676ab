package querysql

import (
	"database/sql"

	"github.com/roach88/sqlfuse/internal/ir"
)

// Param is one bound parameter.
type Param struct {
	// Name is the parameter name without the dialect prefix, e.g. "p0".
	Name string

	// Placeholder is the name as it appears in the SQL text, e.g. "@p0".
	Placeholder string

	// Value is nil, string, int64 or bool.
	Value any
}

// Result is a compiled query or statement.
type Result struct {
	Dialect string
	SQL     string
	Params  []Param
}

// ParamMap returns the parameters keyed by placeholder.
func (r Result) ParamMap() map[string]any {
	m := make(map[string]any, len(r.Params))
	for _, p := range r.Params {
		m[p.Placeholder] = p.Value
	}
	return m
}

// NamedArgs returns the parameters as database/sql named arguments, in
// binding order.
func (r Result) NamedArgs() []any {
	args := make([]any, len(r.Params))
	for i, p := range r.Params {
		args[i] = sql.Named(p.Name, p.Value)
	}
	return args
}

// Fingerprint returns a content hash of the dialect, SQL text and ordered
// parameter bindings.
func (r Result) Fingerprint() (string, error) {
	params := make([]any, len(r.Params))
	for i, p := range r.Params {
		params[i] = map[string]any{"name": p.Placeholder, "value": p.Value}
	}
	return ir.StatementFingerprint(r.Dialect, r.SQL, params)
}
