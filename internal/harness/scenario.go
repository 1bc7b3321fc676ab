package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlfuse/internal/querydoc"
	"github.com/roach88/sqlfuse/internal/querysql"
)

// Scenario defines a conformance scenario.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Catalog is the schema file or directory. Relative paths resolve
	// against the scenario file's directory.
	Catalog string `yaml:"catalog"`

	// Dialects to compile for. Defaults to DefaultDialects.
	Dialects []string `yaml:"dialects,omitempty"`

	// Setup statements run on SQLite before anything else.
	Setup []querydoc.StatementSpec `yaml:"setup,omitempty"`

	Queries    []querydoc.QuerySpec     `yaml:"queries,omitempty"`
	Statements []querydoc.StatementSpec `yaml:"statements,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// DefaultDialects are compiled when a scenario names none.
var DefaultDialects = []string{"sqlserver", "sqlite"}

// Assertion validates the compiled output or the database afterwards.
type Assertion struct {
	// Type is one of sql, params, compile_error, row_count, final_state.
	Type string `yaml:"type"`

	// Entry names the query or statement (all but final_state).
	Entry string `yaml:"entry,omitempty"`

	// Dialect selects the compilation (sql, params, compile_error).
	Dialect string `yaml:"dialect,omitempty"`

	SQL    string         `yaml:"sql,omitempty"`
	Params map[string]any `yaml:"params,omitempty"`
	Code   string         `yaml:"code,omitempty"`
	Count  int64          `yaml:"count,omitempty"`

	// Table, Where and Expect are used by final_state. Where must match
	// exactly one row. Expect is a subset match.
	Table  string         `yaml:"table,omitempty"`
	Where  map[string]any `yaml:"where,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertSQL          = "sql"
	AssertParams       = "params"
	AssertCompileError = "compile_error"
	AssertRowCount     = "row_count"
	AssertFinalState   = "final_state"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected. The catalog path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog not found: %s", s.Catalog)
	}
	if len(s.Queries)+len(s.Statements) == 0 {
		return fmt.Errorf("at least one query or statement is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, name := range s.Dialects {
		if _, ok := querysql.LookupDialect(name); !ok {
			return fmt.Errorf("unknown dialect %q", name)
		}
	}

	entries := make(map[string]bool)
	for _, q := range s.Queries {
		if err := addEntry(entries, q.Name); err != nil {
			return err
		}
	}
	for _, st := range s.Statements {
		if err := addEntry(entries, st.Name); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, entries); err != nil {
			return err
		}
	}
	return nil
}

func addEntry(entries map[string]bool, name string) error {
	if name == "" {
		return fmt.Errorf("every query and statement needs a name")
	}
	if entries[name] {
		return fmt.Errorf("duplicate entry name %q", name)
	}
	entries[name] = true
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, entries map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSQL, AssertParams, AssertCompileError, AssertRowCount:
		if a.Entry == "" {
			return fmt.Errorf("assertions[%d]: entry is required for %s", index, a.Type)
		}
		if !entries[a.Entry] {
			return fmt.Errorf("assertions[%d]: unknown entry %q", index, a.Entry)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	switch a.Type {
	case AssertSQL:
		if a.Dialect == "" || a.SQL == "" {
			return fmt.Errorf("assertions[%d]: dialect and sql are required for sql", index)
		}
	case AssertParams:
		if a.Dialect == "" || len(a.Params) == 0 {
			return fmt.Errorf("assertions[%d]: dialect and params are required for params", index)
		}
	case AssertCompileError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for compile_error", index)
		}
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	}
	return nil
}

func (s *Scenario) dialects() []querysql.Dialect {
	names := s.Dialects
	if len(names) == 0 {
		names = DefaultDialects
	}
	out := make([]querysql.Dialect, 0, len(names))
	for _, name := range names {
		if d, ok := querysql.LookupDialect(name); ok {
			out = append(out, d)
		}
	}
	return out
}
