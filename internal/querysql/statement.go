package querysql

import (
	"errors"
	"strings"

	"github.com/roach88/sqlfuse/internal/normalize"
	"github.com/roach88/sqlfuse/internal/queryir"
)

// compileStatement fuses a builder chain and renders it. The target table
// is never aliased: columns render as table.col in WHERE and bare in SET
// and column lists.
func compileStatement(s queryir.Statement, ctx Context) (string, Context, error) {
	plan, err := normalize.Statement(s)
	if err != nil {
		var shapeErr *normalize.ShapeError
		if errors.As(err, &shapeErr) {
			return "", ctx, &CompileError{Code: ErrCodeUnsupportedStatement, Node: shapeErr.Node, Message: shapeErr.Reason, Err: err}
		}
		return "", ctx, err
	}

	switch p := plan.(type) {
	case *queryir.InsertPlan:
		return compileInsert(p, ctx)
	case *queryir.UpdatePlan:
		return compileUpdate(p, ctx)
	case *queryir.DeletePlan:
		return compileDelete(p, ctx)
	default:
		return "", ctx, newError(ErrCodeUnsupportedStatement, plan, "unsupported statement plan: %T", plan)
	}
}

func compileInsert(p *queryir.InsertPlan, ctx Context) (string, Context, error) {
	if len(p.Values) == 0 {
		return "", ctx, newError(ErrCodeEmptyInsert, p, "INSERT into %s has no values", p.Table.Name())
	}
	ctx = ctx.withScope(p.Table, p.Table.Name())

	cols := make([]string, len(p.Values))
	vals := make([]string, len(p.Values))
	for i, a := range p.Values {
		col, err := targetColumn(p.Table, a.Column)
		if err != nil {
			return "", ctx, err
		}
		cols[i] = col
		vals[i], ctx, err = compileExpr(a.Value, ctx)
		if err != nil {
			return "", ctx, err
		}
	}
	return "INSERT INTO " + p.Table.Name() + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")", ctx, nil
}

func compileUpdate(p *queryir.UpdatePlan, ctx Context) (string, Context, error) {
	if len(p.Sets) == 0 {
		return "", ctx, newError(ErrCodeEmptyUpdate, p, "UPDATE of %s has no assignments", p.Table.Name())
	}
	ctx = ctx.withScope(p.Table, p.Table.Name())

	sets := make([]string, len(p.Sets))
	for i, a := range p.Sets {
		col, err := targetColumn(p.Table, a.Column)
		if err != nil {
			return "", ctx, err
		}
		var val string
		val, ctx, err = compileExpr(a.Value, ctx)
		if err != nil {
			return "", ctx, err
		}
		sets[i] = col + " = " + val
	}
	sql := "UPDATE " + p.Table.Name() + " SET " + strings.Join(sets, ", ")

	where, ctx, err := compileFilter(p.Where, ctx)
	if err != nil {
		return "", ctx, err
	}
	return sql + where, ctx, nil
}

func compileDelete(p *queryir.DeletePlan, ctx Context) (string, Context, error) {
	ctx = ctx.withScope(p.Table, p.Table.Name())
	where, ctx, err := compileFilter(p.Where, ctx)
	if err != nil {
		return "", ctx, err
	}
	return "DELETE FROM " + p.Table.Name() + where, ctx, nil
}

func compileFilter(pred queryir.Expr, ctx Context) (string, Context, error) {
	if pred == nil {
		return "", ctx, nil
	}
	sql, ctx, err := compileExpr(pred, ctx)
	if err != nil {
		return "", ctx, err
	}
	return " WHERE " + sql, ctx, nil
}

// targetColumn checks that an assignment target is a column of table.
func targetColumn(table *queryir.Table, e queryir.Expr) (string, error) {
	col, ok := queryir.AsColumn(e)
	if !ok {
		if e == nil {
			return "", newError(ErrCodeNotAColumn, nil, "assignment target is nil")
		}
		return "", newError(ErrCodeNotAColumn, e, "assignment target is not a column")
	}
	if col.Table != table {
		return "", newError(ErrCodeNotAColumn, col, "column %s.%s does not belong to %s", col.Table.Name(), col.Name, table.Name())
	}
	return col.Name, nil
}
