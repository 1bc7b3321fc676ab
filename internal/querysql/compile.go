package querysql

import (
	"log/slog"
	"strings"

	"github.com/roach88/sqlfuse/internal/normalize"
	"github.com/roach88/sqlfuse/internal/queryir"
)

// SQLCompiler compiles query trees and statement chains to parameterized
// SQL for one dialect.
//
// CRITICAL: Values are never interpolated. Every literal, pattern and list
// element is bound as a parameter.
//
// SQLCompiler holds no mutable state and is safe for concurrent use.
type SQLCompiler struct {
	Dialect Dialect
}

// NewSQLCompiler creates a compiler for d.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{Dialect: d}
}

// Compile validates, normalizes and compiles a query.
func (c *SQLCompiler) Compile(q queryir.Query) (Result, error) {
	if v := queryir.Validate(q); !v.Valid {
		return Result{}, newError(ErrCodeInvalidTree, q, "invalid query tree: %s", strings.Join(v.Problems, "; "))
	}

	nq := normalize.Query(q)
	sql, _, ctx, err := compileQuery(nq, NewContext(c.Dialect))
	if err != nil {
		slog.Debug("query compilation failed", "dialect", c.Dialect.Name, "shape", queryir.Shape(nq), "error", err)
		return Result{}, err
	}
	return c.result(sql, ctx), nil
}

// CompileStatement compiles an INSERT, UPDATE or DELETE chain.
func (c *SQLCompiler) CompileStatement(s queryir.Statement) (Result, error) {
	sql, ctx, err := compileStatement(s, NewContext(c.Dialect))
	if err != nil {
		slog.Debug("statement compilation failed", "dialect", c.Dialect.Name, "error", err)
		return Result{}, err
	}
	return c.result(sql, ctx), nil
}

// CompileExpr compiles a standalone expression. Columns of tables that were
// never aliased render as table.col.
func (c *SQLCompiler) CompileExpr(e queryir.Expr) (Result, error) {
	sql, ctx, err := compileExpr(e, NewContext(c.Dialect))
	if err != nil {
		return Result{}, err
	}
	return c.result(sql, ctx), nil
}

func (c *SQLCompiler) result(sql string, ctx Context) Result {
	r := Result{Dialect: c.Dialect.Name, SQL: sql, Params: ctx.Params()}
	slog.Debug("compiled", "dialect", r.Dialect, "sql", r.SQL, "params", len(r.Params))
	return r
}
