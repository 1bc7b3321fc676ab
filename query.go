package sqlfuse

import (
	"github.com/roach88/sqlfuse/internal/queryir"
)

// Query is a query whose rows have type R. Query values are immutable;
// every method returns a new Query.
type Query[R any] struct {
	node queryir.Query
}

// Node returns the untyped query tree.
func (q Query[R]) Node() queryir.Query { return q.node }

// From starts a query over a table row type.
func From[R Relation](row R) Query[R] {
	return Query[R]{node: &queryir.From{Table: row.Source(), Row: row}}
}

// FromQuery uses the result of q as a derived table, so later operators
// apply to its output rather than fusing into it.
func FromQuery[R any](q Query[R]) Query[R] {
	return Query[R]{node: &queryir.FromSubquery{Query: q.node}}
}

// Where filters rows. Successive filters are ANDed.
func (q Query[R]) Where(pred func(R) Bool) Query[R] {
	return Query[R]{node: &queryir.Where{Source: q.node, Predicate: predicate(pred)}}
}

// OrderBy sorts ascending by key. Successive sorts add secondary keys.
func (q Query[R]) OrderBy(key func(R) Typed) Query[R] {
	return q.sort(key, false)
}

// OrderByDesc sorts descending by key.
func (q Query[R]) OrderByDesc(key func(R) Typed) Query[R] {
	return q.sort(key, true)
}

// ThenBy adds an ascending secondary key.
func (q Query[R]) ThenBy(key func(R) Typed) Query[R] { return q.sort(key, false) }

// ThenByDesc adds a descending secondary key.
func (q Query[R]) ThenByDesc(key func(R) Typed) Query[R] { return q.sort(key, true) }

func (q Query[R]) sort(key func(R) Typed, desc bool) Query[R] {
	return Query[R]{node: &queryir.OrderBy{
		Source: q.node,
		Keys: []queryir.SortKey{{
			Key:  func(row any) queryir.Expr { return key(row.(R)).Expr() },
			Desc: desc,
		}},
	}}
}

// Having filters groups. It applies to the nearest GroupBy.
func (q Query[R]) Having(pred func(R) Bool) Query[R] {
	return Query[R]{node: &queryir.Having{Source: q.node, Predicate: predicate(pred)}}
}

// Select projects each row. P may be a typed expression, a table row, or a
// struct, slice or array of those.
func Select[R, P any](q Query[R], proj func(R) P) Query[P] {
	return Query[P]{node: &queryir.Select{
		Source:    q.node,
		Projector: func(row any) any { return proj(row.(R)) },
	}}
}

// Group is the row type of a grouped query. Rows is the placeholder row of
// the group's members, for use inside aggregates.
type Group[K, R any] struct {
	Key  K
	Rows R
}

// GroupKey makes a Group project to its key when selected whole.
func (g Group[K, R]) GroupKey() any { return g.Key }

// GroupBy groups rows by key.
func GroupBy[R, K any](q Query[R], key func(R) K) Query[Group[K, R]] {
	return Query[Group[K, R]]{node: &queryir.GroupBy{
		Source: q.node,
		Key:    func(row any) any { return key(row.(R)) },
		Group: func(k, row any) any {
			return Group[K, R]{Key: k.(K), Rows: row.(R)}
		},
	}}
}

// Join inner-joins a table onto q where outerKey equals innerKey.
func Join[R any, I Relation, K Typed, P any](q Query[R], inner I, outerKey func(R) K, innerKey func(I) K, result func(R, I) P) Query[P] {
	return join(queryir.JoinInner, q, inner, outerKey, innerKey, result)
}

// LeftJoin left-outer-joins a table onto q.
func LeftJoin[R any, I Relation, K Typed, P any](q Query[R], inner I, outerKey func(R) K, innerKey func(I) K, result func(R, I) P) Query[P] {
	return join(queryir.JoinLeft, q, inner, outerKey, innerKey, result)
}

func join[R any, I Relation, K Typed, P any](kind queryir.JoinKind, q Query[R], inner I, outerKey func(R) K, innerKey func(I) K, result func(R, I) P) Query[P] {
	return Query[P]{node: &queryir.Join{
		Outer: q.node,
		Legs: []queryir.JoinLeg{{
			Kind:     kind,
			Table:    inner.Source(),
			Row:      inner,
			OuterKey: func(row any) queryir.Expr { return outerKey(row.(R)).Expr() },
			InnerKey: func(row any) queryir.Expr { return innerKey(row.(I)).Expr() },
			Result:   func(outer, in any) any { return result(outer.(R), in.(I)) },
		}},
	}}
}

// InInts tests x against the single integer column produced by q.
func InInts(x Int, q Query[Int]) Bool { return x.InQuery(q.node) }

// InStrings tests x against the single string column produced by q.
func InStrings(x String, q Query[String]) Bool { return x.InQuery(q.node) }

func predicate[R any](pred func(R) Bool) queryir.ExprFunc {
	return func(row any) queryir.Expr { return pred(row.(R)).Expr() }
}
