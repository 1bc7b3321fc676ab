package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlfuse/internal/ir"
	"github.com/roach88/sqlfuse/internal/normalize"
	"github.com/roach88/sqlfuse/internal/queryir"
)

// compileExpr renders e and binds its parameters. Operands compile left to
// right, so parameter numbering follows reading order.
func compileExpr(e queryir.Expr, ctx Context) (string, Context, error) {
	if e == nil {
		return "", ctx, newError(ErrCodeUnsupportedExpression, nil, "nil expression")
	}
	if ref, ok := ctx.projection(e); ok {
		return ref.String(), ctx, nil
	}

	switch x := e.(type) {
	case *queryir.Literal:
		value, err := ir.ToParam(x.Value)
		if err != nil {
			return "", ctx, &CompileError{Code: ErrCodeUnsupportedExpression, Node: "Literal", Message: err.Error(), Err: err}
		}
		ctx, placeholder := ctx.withLiteral(x, value)
		return placeholder, ctx, nil

	case *queryir.Param:
		ctx, placeholder, err := ctx.withNamedParam(x)
		return placeholder, ctx, err

	case *queryir.Null:
		return "NULL", ctx, nil

	case *queryir.Column:
		sql, err := resolveColumn(x, ctx)
		return sql, ctx, err

	case *queryir.Binary:
		return compileBinary(x, ctx)

	case *queryir.Unary:
		operand, ctx, err := compileExpr(x.Operand, ctx)
		if err != nil {
			return "", ctx, err
		}
		switch x.Op {
		case queryir.OpNot:
			return "NOT (" + operand + ")", ctx, nil
		case queryir.OpNegate:
			return "-(" + operand + ")", ctx, nil
		case queryir.OpAbs:
			return "ABS(" + operand + ")", ctx, nil
		default:
			return "", ctx, newError(ErrCodeUnsupportedExpression, x, "unsupported unary operator %s", x.Op)
		}

	case *queryir.Like:
		subject, ctx, err := compileExpr(x.Subject, ctx)
		if err != nil {
			return "", ctx, err
		}
		ctx, placeholder := ctx.withParam(x.Pattern)
		return subject + " LIKE " + placeholder, ctx, nil

	case *queryir.Case:
		when, ctx, err := compileExpr(x.When, ctx)
		if err != nil {
			return "", ctx, err
		}
		then, ctx, err := compileExpr(x.Then, ctx)
		if err != nil {
			return "", ctx, err
		}
		els, ctx, err := compileExpr(x.Else, ctx)
		if err != nil {
			return "", ctx, err
		}
		return fmt.Sprintf("CASE WHEN %s THEN %s ELSE %s END", when, then, els), ctx, nil

	case *queryir.Aggregate:
		if x.Arg == nil {
			if x.Func != queryir.AggCount {
				return "", ctx, newError(ErrCodeUnsupportedExpression, x, "%s requires an argument", x.Func)
			}
			return "COUNT(*)", ctx, nil
		}
		arg, ctx, err := compileExpr(x.Arg, ctx)
		if err != nil {
			return "", ctx, err
		}
		return x.Func.String() + "(" + arg + ")", ctx, nil

	case *queryir.InList:
		subject, ctx, err := compileExpr(x.Subject, ctx)
		if err != nil {
			return "", ctx, err
		}
		if len(x.Values) == 0 {
			return ctx.dialect.FalseLiteral, ctx, nil
		}
		items := make([]string, len(x.Values))
		for i, v := range x.Values {
			value, err := ir.ToParam(v)
			if err != nil {
				return "", ctx, &CompileError{Code: ErrCodeUnsupportedExpression, Node: "InList", Message: err.Error(), Err: err}
			}
			ctx, items[i] = ctx.withParam(value)
		}
		return subject + " IN (" + strings.Join(items, ", ") + ")", ctx, nil

	case *queryir.InQuery:
		subject, ctx, err := compileExpr(x.Subject, ctx)
		if err != nil {
			return "", ctx, err
		}
		sub, width, ctx, err := compileNested(x.Query, ctx)
		if err != nil {
			return "", ctx, err
		}
		if width != 1 {
			return "", ctx, newError(ErrCodeUnsupportedQueryShape, x, "IN subquery must project exactly one column, got %d", width)
		}
		return subject + " IN (" + sub + ")", ctx, nil

	case *queryir.Subquery:
		sub, width, ctx, err := compileNested(x.Query, ctx)
		if err != nil {
			return "", ctx, err
		}
		if width != 1 {
			return "", ctx, newError(ErrCodeUnsupportedQueryShape, x, "scalar subquery must project exactly one column, got %d", width)
		}
		return "(" + sub + ")", ctx, nil

	default:
		return "", ctx, newError(ErrCodeUnsupportedExpression, e, "unsupported expression type: %T", e)
	}
}

func compileBinary(x *queryir.Binary, ctx Context) (string, Context, error) {
	// Comparisons against NULL become IS [NOT] NULL.
	if x.Op == queryir.OpEq || x.Op == queryir.OpNe {
		subject := x.Left
		if queryir.IsNull(subject) {
			subject = x.Right
		}
		if queryir.IsNull(x.Left) || queryir.IsNull(x.Right) {
			sql, ctx, err := compileExpr(subject, ctx)
			if err != nil {
				return "", ctx, err
			}
			if x.Op == queryir.OpEq {
				return sql + " IS NULL", ctx, nil
			}
			return sql + " IS NOT NULL", ctx, nil
		}
	}

	left, ctx, err := compileExpr(x.Left, ctx)
	if err != nil {
		return "", ctx, err
	}
	right, ctx, err := compileExpr(x.Right, ctx)
	if err != nil {
		return "", ctx, err
	}

	switch {
	case x.Op == queryir.OpConcat:
		return fmt.Sprintf("%s(%s, %s)", ctx.dialect.ConcatFunc, left, right), ctx, nil
	case x.Op.IsLogical():
		return fmt.Sprintf("(%s) %s (%s)", left, x.Op.Symbol(), right), ctx, nil
	case x.Op.IsArithmetic():
		return fmt.Sprintf("(%s %s %s)", left, x.Op.Symbol(), right), ctx, nil
	case x.Op.IsComparison():
		return fmt.Sprintf("%s %s %s", left, x.Op.Symbol(), right), ctx, nil
	default:
		return "", ctx, newError(ErrCodeUnsupportedExpression, x, "unsupported binary operator %s", x.Op)
	}
}

// resolveColumn qualifies a column by the alias of a visible table, or by
// the bare table name when the table was never aliased.
func resolveColumn(col *queryir.Column, ctx Context) (string, error) {
	if q, ok := ctx.qualifier(col.Table); ok {
		return q + "." + col.Name, nil
	}
	if i, aliased := ctx.tableAlias(col.Table); aliased {
		return "", newError(ErrCodeUnregisteredAlias, col,
			"column %s.%s refers to alias a%d outside its scope", col.Table.Name(), col.Name, i)
	}
	return col.Table.Name() + "." + col.Name, nil
}

// compileNested compiles a query in expression position. Tables and
// projections registered inside stay invisible to the caller; parameters
// and alias numbering carry over.
func compileNested(q queryir.Query, ctx Context) (string, int, Context, error) {
	saved := ctx
	sql, shape, ctx, err := compileQuery(normalize.Query(q), ctx)
	if err != nil {
		return "", 0, ctx, err
	}
	leaves, err := queryir.Flatten(shape)
	if err != nil {
		return "", 0, ctx, projectionError(err)
	}
	return sql, len(leaves), ctx.withVisibility(saved), nil
}
