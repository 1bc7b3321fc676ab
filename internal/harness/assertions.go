package harness

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/roach88/sqlfuse/internal/querysql"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// This prevents SQL injection via identifier interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			switch event.Type {
			case EventCompiled:
				fmt.Fprintf(&buf, "  [%d] %s (%s): %s\n", event.Seq, event.Entry, event.Dialect, event.SQL)
			case EventError:
				fmt.Fprintf(&buf, "  [%d] %s (%s): error %s\n", event.Seq, event.Entry, event.Dialect, event.Code)
			}
		}
	}
	return buf.String()
}

// dialectName canonicalizes a dialect alias such as "mssql".
func dialectName(name string) string {
	if d, ok := querysql.LookupDialect(name); ok {
		return d.Name
	}
	return name
}

// compiled returns the compiled event for an assertion's entry and dialect.
func compiled(trace *Result, a Assertion) (TraceEvent, error) {
	dialect := dialectName(a.Dialect)
	if e, ok := trace.find(EventCompiled, a.Entry, dialect); ok {
		return e, nil
	}
	actual := "not compiled"
	if e, ok := trace.find(EventError, a.Entry, dialect); ok {
		actual = "compile error " + e.Code
	}
	return TraceEvent{}, &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s compiled for %s", a.Entry, dialect),
		Actual:   actual,
		Trace:    trace.Trace,
	}
}

// assertSQL checks the exact SQL text of a compilation.
func assertSQL(result *Result, a Assertion) error {
	event, err := compiled(result, a)
	if err != nil {
		return err
	}
	if event.SQL != a.SQL {
		return &AssertionError{
			Type:     AssertSQL,
			Expected: a.SQL,
			Actual:   event.SQL,
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertParams checks bound parameters by placeholder (subset match).
func assertParams(result *Result, a Assertion) error {
	event, err := compiled(result, a)
	if err != nil {
		return err
	}

	actual := make(map[string]any, len(event.Params))
	for _, p := range event.Params {
		m := p.(map[string]any)
		actual[m["name"].(string)] = m["value"]
	}

	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		got, exists := actual[key]
		if !exists {
			return &AssertionError{
				Type:     AssertParams,
				Expected: fmt.Sprintf("parameter %s", key),
				Actual:   fmt.Sprintf("not bound in %s", event.SQL),
				Trace:    result.Trace,
			}
		}
		if !valuesEqual(a.Params[key], got) {
			return &AssertionError{
				Type:     AssertParams,
				Expected: fmt.Sprintf("%s = %v (type %T)", key, a.Params[key], a.Params[key]),
				Actual:   fmt.Sprintf("%s = %v (type %T)", key, got, got),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertCompileError checks that an entry failed with the given code, in
// the named dialect or in any dialect when none is named.
func assertCompileError(result *Result, a Assertion) error {
	dialect := ""
	if a.Dialect != "" {
		dialect = dialectName(a.Dialect)
	}
	event, ok := result.find(EventError, a.Entry, dialect)
	if !ok {
		return &AssertionError{
			Type:     AssertCompileError,
			Expected: fmt.Sprintf("%s fails with %s", a.Entry, a.Code),
			Actual:   "compiled without error",
			Trace:    result.Trace,
		}
	}
	if event.Code != a.Code {
		return &AssertionError{
			Type:     AssertCompileError,
			Expected: fmt.Sprintf("%s fails with %s", a.Entry, a.Code),
			Actual:   fmt.Sprintf("failed with %q", event.Code),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertRowCount checks the SQLite row count of an entry.
func assertRowCount(result *Result, a Assertion) error {
	rows, ok := result.Rows[a.Entry]
	if !ok {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows for %s", a.Count, a.Entry),
			Actual:   "entry did not run on sqlite",
			Trace:    result.Trace,
		}
	}
	if rows != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows for %s", a.Count, a.Entry),
			Actual:   fmt.Sprintf("%d rows", rows),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFinalState checks that exactly one row matches Where and that it
// holds the Expect values. Identifiers are validated, values are bound.
func assertFinalState(ctx context.Context, db *sql.DB, a Assertion) error {
	if !validIdentifier.MatchString(a.Table) {
		return fmt.Errorf("invalid table name %q: must match pattern %s", a.Table, validIdentifier.String())
	}

	whereSQL, whereArgs, err := buildWhereClause(a.Where)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT * FROM %s", a.Table)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := db.QueryContext(ctx, query, whereArgs...)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", a.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	if !rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", a.Table, formatWhereClause(a.Where)),
			Actual:   "row not found",
		}
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}

	if rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", a.Table, formatWhereClause(a.Where)),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	actualRow := make(map[string]any, len(columns))
	for i, col := range columns {
		actualRow[col] = values[i]
	}

	for key, expected := range a.Expect {
		actual, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}
		if !valuesEqual(expected, actual) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expected, expected),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actual, actual),
			}
		}
	}
	return nil
}

// buildWhereClause builds a parameterized WHERE clause. Keys are sorted
// for determinism. A nil value matches with IS NULL.
func buildWhereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		if where[key] == nil {
			clauses = append(clauses, key+" IS NULL")
			continue
		}
		clauses = append(clauses, key+" = ?")
		args = append(args, where[key])
	}
	return strings.Join(clauses, " AND "), args, nil
}

// formatWhereClause describes WHERE conditions for messages.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// valuesEqual compares an expected YAML value with a bound parameter or a
// scanned SQLite value, coercing the actual value to the expected type.
// SQLite stores booleans as integers.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	switch exp := expected.(type) {
	case string:
		got, err := cast.ToStringE(actual)
		return err == nil && got == exp
	case bool:
		got, err := cast.ToBoolE(actual)
		return err == nil && got == exp
	case int, int64, int32, uint, uint64:
		want, err := cast.ToInt64E(exp)
		if err != nil {
			return false
		}
		if _, isBool := actual.(bool); isBool {
			return false
		}
		got, err := cast.ToInt64E(actual)
		return err == nil && got == want
	default:
		return fmt.Sprint(expected) == fmt.Sprint(actual)
	}
}

// AssertionContext provides database access for final_state assertions.
type AssertionContext struct {
	DB  *sql.DB
	Ctx context.Context
}

// EvaluateAssertions evaluates all assertions against the result and
// returns the messages of those that failed.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertSQL:
			err = assertSQL(result, assertion)
		case AssertParams:
			err = assertParams(result, assertion)
		case AssertCompileError:
			err = assertCompileError(result, assertion)
		case AssertRowCount:
			err = assertRowCount(result, assertion)
		case AssertFinalState:
			if actx == nil || actx.DB == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires database context", i)
			} else {
				err = assertFinalState(actx.Ctx, actx.DB, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
