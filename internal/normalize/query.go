package normalize

import (
	"log/slog"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// Query fuses q to a fixpoint and canonicalizes the result.
//
// Query is idempotent: normalizing its output yields the same shape.
// Subqueries in FROM position are normalized as part of the tree; queries
// nested inside expressions are normalized by the compiler when it reaches
// them.
func Query(q queryir.Query) queryir.Query {
	passes := 0
	for {
		next, changed := fuse(q)
		passes++
		if !changed {
			break
		}
		q = next
	}
	out := canonicalize(q)
	slog.Debug("normalized query", "shape", queryir.Shape(out), "passes", passes)
	return out
}

// fuse applies at most one rewrite per node on the path to the first
// fusable node, reporting whether anything changed.
func fuse(q queryir.Query) (queryir.Query, bool) {
	switch n := q.(type) {
	case *queryir.Where:
		if inner, ok := n.Source.(*queryir.Where); ok {
			return &queryir.Where{
				Source:    inner.Source,
				Predicate: and(inner.Predicate, n.Predicate),
			}, true
		}
		if src, changed := fuse(n.Source); changed {
			return &queryir.Where{Source: src, Predicate: n.Predicate}, true
		}

	case *queryir.OrderBy:
		if inner, ok := n.Source.(*queryir.OrderBy); ok {
			keys := make([]queryir.SortKey, 0, len(inner.Keys)+len(n.Keys))
			keys = append(keys, inner.Keys...)
			keys = append(keys, n.Keys...)
			return &queryir.OrderBy{Source: inner.Source, Keys: keys}, true
		}
		if src, changed := fuse(n.Source); changed {
			return &queryir.OrderBy{Source: src, Keys: n.Keys}, true
		}

	case *queryir.Select:
		if inner, ok := n.Source.(*queryir.Select); ok {
			return &queryir.Select{
				Source:    inner.Source,
				Projector: compose(inner.Projector, n.Projector),
				Identity:  inner.Identity && n.Identity,
			}, true
		}
		if src, changed := fuse(n.Source); changed {
			return &queryir.Select{Source: src, Projector: n.Projector, Identity: n.Identity}, true
		}

	case *queryir.Having:
		if inner, ok := n.Source.(*queryir.GroupBy); ok {
			having := n.Predicate
			if inner.Having != nil {
				having = and(inner.Having, n.Predicate)
			}
			return &queryir.GroupBy{
				Source: inner.Source,
				Key:    inner.Key,
				Group:  inner.Group,
				Having: having,
			}, true
		}
		if src, changed := fuse(n.Source); changed {
			return &queryir.Having{Source: src, Predicate: n.Predicate}, true
		}

	case *queryir.GroupBy:
		if src, changed := fuse(n.Source); changed {
			return &queryir.GroupBy{Source: src, Key: n.Key, Group: n.Group, Having: n.Having}, true
		}

	case *queryir.Join:
		if inner, ok := n.Outer.(*queryir.Join); ok {
			legs := make([]queryir.JoinLeg, 0, len(inner.Legs)+len(n.Legs))
			legs = append(legs, inner.Legs...)
			legs = append(legs, n.Legs...)
			return &queryir.Join{Outer: inner.Outer, Legs: legs}, true
		}
		if outer, changed := fuse(n.Outer); changed {
			return &queryir.Join{Outer: outer, Legs: n.Legs}, true
		}

	case *queryir.Scalar:
		return scalarSelect(n), true

	case *queryir.FromSubquery:
		if inner, changed := fuse(n.Query); changed {
			return &queryir.FromSubquery{Query: inner}, true
		}
	}
	return q, false
}

// canonicalize wraps a non-Select root in an identity Select and does the
// same for every subquery in FROM position.
func canonicalize(q queryir.Query) queryir.Query {
	q = canonicalizeSources(q)
	if _, ok := q.(*queryir.Select); ok {
		return q
	}
	return &queryir.Select{Source: q, Projector: identity, Identity: true}
}

func canonicalizeSources(q queryir.Query) queryir.Query {
	switch n := q.(type) {
	case *queryir.FromSubquery:
		return &queryir.FromSubquery{Query: canonicalize(n.Query)}
	case *queryir.Select:
		return &queryir.Select{Source: canonicalizeSources(n.Source), Projector: n.Projector, Identity: n.Identity}
	case *queryir.Where:
		return &queryir.Where{Source: canonicalizeSources(n.Source), Predicate: n.Predicate}
	case *queryir.OrderBy:
		return &queryir.OrderBy{Source: canonicalizeSources(n.Source), Keys: n.Keys}
	case *queryir.GroupBy:
		return &queryir.GroupBy{Source: canonicalizeSources(n.Source), Key: n.Key, Group: n.Group, Having: n.Having}
	case *queryir.Having:
		return &queryir.Having{Source: canonicalizeSources(n.Source), Predicate: n.Predicate}
	default:
		return q
	}
}

// scalarSelect lowers a scalar aggregate into a one-column Select.
func scalarSelect(s *queryir.Scalar) *queryir.Select {
	sel := s.Selector
	fn := s.Func
	return &queryir.Select{
		Source: s.Source,
		Projector: func(row any) any {
			agg := &queryir.Aggregate{Func: fn}
			if sel != nil {
				agg.Arg = sel(row)
			}
			return agg
		},
	}
}

func identity(row any) any { return row }

// and evaluates p1 before p2 so parameter numbering follows source order.
func and(p1, p2 queryir.ExprFunc) queryir.ExprFunc {
	return func(row any) queryir.Expr {
		left := p1(row)
		right := p2(row)
		return &queryir.Binary{Op: queryir.OpAnd, Left: left, Right: right}
	}
}

func compose(f, g queryir.RowFunc) queryir.RowFunc {
	return func(row any) any { return g(f(row)) }
}
