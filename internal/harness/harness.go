package harness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sqlfuse/internal/querydoc"
	"github.com/roach88/sqlfuse/internal/querysql"
	"github.com/roach88/sqlfuse/internal/schema"
)

// Harness runs one scenario against a private in-memory database.
type Harness struct {
	db       *sql.DB
	dialects []querysql.Dialect
	logger   *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithLogger sets the logger. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a scenario and returns the result.
//
// A returned error means the scenario could not run at all: a missing
// catalog, an entry that does not build, or a failing setup statement.
// Compile errors and assertion failures are reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	ctx := context.Background()

	catalog, err := schema.Load(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	setup, err := (&querydoc.Document{Statements: scenario.Setup}).Build(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build setup: %w", err)
	}
	entries, err := (&querydoc.Document{Queries: scenario.Queries, Statements: scenario.Statements}).Build(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build entries: %w", err)
	}

	db, err := openDatabase(ctx, catalog)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	h := &Harness{
		db:       db,
		dialects: scenario.dialects(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, e := range setup {
		res, err := e.Compile(querysql.SQLite)
		if err != nil {
			return nil, fmt.Errorf("setup %s: %w", e.Name, err)
		}
		if _, err := db.ExecContext(ctx, res.SQL, res.NamedArgs()...); err != nil {
			return nil, fmt.Errorf("setup %s: %w", e.Name, err)
		}
	}

	result := NewResult()
	for _, e := range entries {
		h.runEntry(ctx, e, result)
	}

	actx := &AssertionContext{DB: db, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario complete",
		"scenario", scenario.Name,
		"events", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

// openDatabase creates a single-connection in-memory SQLite database
// holding the catalog's tables.
func openDatabase(ctx context.Context, catalog *schema.Catalog) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, ddl := range catalog.SQLiteDDL() {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return db, nil
}

// runEntry compiles an entry for every dialect and runs the SQLite
// rendering.
func (h *Harness) runEntry(ctx context.Context, e querydoc.Entry, result *Result) {
	for _, d := range h.dialects {
		res, err := e.Compile(d)
		if err != nil {
			event := TraceEvent{Type: EventError, Entry: e.Name, Dialect: d.Name}
			var cerr *querysql.CompileError
			if errors.As(err, &cerr) {
				event.Code = string(cerr.Code)
			}
			result.add(event)
			h.logger.Debug("compile failed", "entry", e.Name, "dialect", d.Name, "error", err)
			continue
		}

		result.add(TraceEvent{
			Type:    EventCompiled,
			Entry:   e.Name,
			Dialect: d.Name,
			SQL:     res.SQL,
			Params:  traceParams(res),
		})

		if d.Name != querysql.SQLite.Name {
			continue
		}
		rows, err := h.execute(ctx, e, res)
		if err != nil {
			result.AddError(fmt.Sprintf("%s: sqlite rejected %q: %v", e.Name, res.SQL, err))
			continue
		}
		result.Rows[e.Name] = rows
		result.add(TraceEvent{Type: EventExecuted, Entry: e.Name, Dialect: d.Name, Rows: rows})
	}
}

// execute runs a compiled entry. Queries report rows returned, statements
// rows affected.
func (h *Harness) execute(ctx context.Context, e querydoc.Entry, res querysql.Result) (int64, error) {
	if e.Statement != nil {
		r, err := h.db.ExecContext(ctx, res.SQL, res.NamedArgs()...)
		if err != nil {
			return 0, err
		}
		return r.RowsAffected()
	}

	rows, err := h.db.QueryContext(ctx, res.SQL, res.NamedArgs()...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

func traceParams(res querysql.Result) []any {
	params := make([]any, len(res.Params))
	for i, p := range res.Params {
		params[i] = map[string]any{"name": p.Placeholder, "value": p.Value}
	}
	return params
}
