package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// selectTemplate is the one query shape the compiler emits:
//
//	Select(OrderBy?(GroupBy?(Where?(source))))
//
// where source is a From, a FromSubquery or a Join over a From.
type selectTemplate struct {
	sel    *queryir.Select
	order  *queryir.OrderBy
	group  *queryir.GroupBy
	where  *queryir.Where
	source queryir.Query
}

func matchTemplate(q queryir.Query) (*selectTemplate, error) {
	sel, ok := q.(*queryir.Select)
	if !ok {
		return nil, newError(ErrCodeUnsupportedQueryShape, q, "query root must be a Select, got %s", queryir.Shape(q))
	}
	t := &selectTemplate{sel: sel}
	cur := sel.Source
	if n, ok := cur.(*queryir.OrderBy); ok {
		t.order = n
		cur = n.Source
	}
	if n, ok := cur.(*queryir.GroupBy); ok {
		t.group = n
		cur = n.Source
	}
	if n, ok := cur.(*queryir.Where); ok {
		t.where = n
		cur = n.Source
	}
	switch n := cur.(type) {
	case *queryir.From, *queryir.FromSubquery:
		t.source = cur
	case *queryir.Join:
		if _, ok := n.Outer.(*queryir.From); !ok {
			return nil, newError(ErrCodeUnsupportedQueryShape, n, "join must start from a table, got %s", queryir.Shape(n.Outer))
		}
		t.source = cur
	default:
		return nil, newError(ErrCodeUnsupportedQueryShape, cur, "unsupported query shape %s", queryir.Shape(q))
	}
	return t, nil
}

// compileQuery compiles a normalized query. It returns the SQL, the
// projected shape, and the context after compilation.
//
// Clauses compile in a fixed order so parameter numbering is stable: the
// source (subquery and join keys), then the projection, WHERE, GROUP BY,
// HAVING and ORDER BY. The projected leaves are registered against the
// select's alias only after every clause has compiled.
func compileQuery(q queryir.Query, ctx Context) (string, any, Context, error) {
	t, err := matchTemplate(q)
	if err != nil {
		return "", nil, ctx, err
	}
	entry := ctx

	from, row, alias, ctx, err := compileSource(t.source, ctx)
	if err != nil {
		return "", nil, ctx, err
	}

	projRow := row
	var groupKey any
	if t.group != nil {
		groupKey = t.group.Key(row)
		projRow = t.group.Group(groupKey, row)
	}

	// A grouped or joined row is never exposed as "*".
	_, joined := t.source.(*queryir.Join)
	proj, err := compileProjection(t.sel, projRow, t.group == nil && !joined, alias, ctx)
	if err != nil {
		return "", nil, ctx, err
	}
	ctx = proj.ctx

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(proj.sql)
	b.WriteString(" FROM ")
	b.WriteString(from)

	if t.where != nil {
		var sql string
		sql, ctx, err = compileExpr(t.where.Predicate(row), ctx)
		if err != nil {
			return "", nil, ctx, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(sql)
	}

	if t.group != nil {
		keys, err := queryir.Flatten(groupKey)
		if err != nil {
			return "", nil, ctx, projectionError(err)
		}
		if len(keys) == 0 {
			return "", nil, ctx, newError(ErrCodeUnsupportedQueryShape, t.group, "group key has no columns")
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i], ctx, err = compileExpr(k, ctx)
			if err != nil {
				return "", nil, ctx, err
			}
		}
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(parts, ", "))

		if t.group.Having != nil {
			var sql string
			sql, ctx, err = compileExpr(t.group.Having(projRow), ctx)
			if err != nil {
				return "", nil, ctx, err
			}
			b.WriteString(" HAVING ")
			b.WriteString(sql)
		}
	}

	if t.order != nil {
		parts := make([]string, len(t.order.Keys))
		for i, k := range t.order.Keys {
			var sql string
			sql, ctx, err = compileExpr(k.Key(projRow), ctx)
			if err != nil {
				return "", nil, ctx, err
			}
			dir := "ASC"
			if k.Desc {
				dir = "DESC"
			}
			parts[i] = sql + " " + dir
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	for _, leaf := range proj.leaves {
		ctx = ctx.withProjection(leaf.expr, fieldRef{alias: leaf.alias, field: leaf.field})
	}
	return b.String(), proj.shape, ctx.withScopeOf(entry), nil
}

// compileSource renders the FROM clause and returns the placeholder row the
// rest of the select is evaluated against, plus the alias projected leaves
// register under.
func compileSource(src queryir.Query, ctx Context) (string, any, int, Context, error) {
	switch n := src.(type) {
	case *queryir.From:
		ctx, alias := ctx.withTable(n.Table)
		ctx = ctx.withScope(n.Table, aliasName(alias))
		return fmt.Sprintf("%s %s", n.Table.Name(), aliasName(alias)), n.Row, alias, ctx, nil

	case *queryir.FromSubquery:
		outer := ctx
		inner, shape, ctx, err := compileQuery(n.Query, ctx)
		if err != nil {
			return "", nil, 0, ctx, err
		}
		ctx = ctx.withScopeOf(outer)
		ctx, alias := ctx.withAlias()
		leaves, err := queryir.Flatten(shape)
		if err != nil {
			return "", nil, 0, ctx, projectionError(err)
		}
		ctx = ctx.withRepointed(leaves, alias)
		return fmt.Sprintf("(%s) %s", inner, aliasName(alias)), shape, alias, ctx, nil

	case *queryir.Join:
		head := n.Outer.(*queryir.From)
		ctx, alias := ctx.withTable(head.Table)
		ctx = ctx.withScope(head.Table, aliasName(alias))
		row := head.Row

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", head.Table.Name(), aliasName(alias))
		for _, leg := range n.Legs {
			var legAlias int
			ctx, legAlias = ctx.withTable(leg.Table)
			ctx = ctx.withScope(leg.Table, aliasName(legAlias))

			outerKey, c, err := compileExpr(leg.OuterKey(row), ctx)
			if err != nil {
				return "", nil, 0, c, err
			}
			innerKey, c, err := compileExpr(leg.InnerKey(leg.Row), c)
			if err != nil {
				return "", nil, 0, c, err
			}
			ctx = c
			fmt.Fprintf(&b, " %s %s %s ON %s = %s", leg.Kind.SQL(), leg.Table.Name(), aliasName(legAlias), outerKey, innerKey)
			row = leg.Result(row, leg.Row)
		}
		return b.String(), row, alias, ctx, nil

	default:
		return "", nil, 0, ctx, newError(ErrCodeUnsupportedQueryShape, src, "unsupported query source: %T", src)
	}
}

func aliasName(i int) string {
	return fmt.Sprintf("a%d", i)
}
