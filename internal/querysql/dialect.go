package querysql

import (
	"slices"
	"strings"
)

// Dialect captures the rendering differences between SQL backends.
type Dialect struct {
	// Name identifies the dialect in results and fingerprints.
	Name string

	// ParamPrefix is prepended to parameter names in SQL text.
	ParamPrefix string

	// FalseLiteral renders a predicate that is always false, used for an
	// IN test against an empty list.
	FalseLiteral string

	// ConcatFunc names the string concatenation function.
	ConcatFunc string
}

// Placeholder renders a parameter reference.
func (d Dialect) Placeholder(name string) string {
	return d.ParamPrefix + name
}

var (
	// SQLServer renders T-SQL: @name parameters, no boolean literals.
	SQLServer = Dialect{
		Name:         "sqlserver",
		ParamPrefix:  "@",
		FalseLiteral: "1 = 0",
		ConcatFunc:   "CONCAT",
	}

	// SQLite renders SQLite 3.44+ SQL with :name parameters.
	SQLite = Dialect{
		Name:         "sqlite",
		ParamPrefix:  ":",
		FalseLiteral: "FALSE",
		ConcatFunc:   "CONCAT",
	}
)

// dialects is populated at init and read-only afterwards.
var dialects = map[string]Dialect{
	"sqlserver": SQLServer,
	"mssql":     SQLServer,
	"sqlite":    SQLite,
	"sqlite3":   SQLite,
}

// LookupDialect finds a dialect by name or alias, case-insensitively.
func LookupDialect(name string) (Dialect, bool) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// DialectNames returns the canonical dialect names, sorted.
func DialectNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, d := range dialects {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	slices.Sort(names)
	return names
}
