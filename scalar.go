package sqlfuse

import (
	"github.com/roach88/sqlfuse/internal/queryir"
)

// ScalarQuery aggregates a query to one integer value. Compile it on its
// own, or use Value to embed it in another query's expressions.
type ScalarQuery struct {
	node *queryir.Scalar
}

// Node returns the untyped query tree.
func (s ScalarQuery) Node() queryir.Query { return s.node }

// Value returns the aggregate as an expression, rendered as a
// parenthesized subquery.
func (s ScalarQuery) Value() Int {
	return queryir.WrapInt(&queryir.Subquery{Query: s.node, K: queryir.KindInt})
}

// CountOf counts the rows of q.
func CountOf[R any](q Query[R]) ScalarQuery {
	return ScalarQuery{node: &queryir.Scalar{Func: queryir.AggCount, Source: q.node}}
}

// SumOf sums sel over the rows of q.
func SumOf[R any](q Query[R], sel func(R) Int) ScalarQuery {
	return scalar(queryir.AggSum, q, sel)
}

// AvgOf averages sel over the rows of q.
func AvgOf[R any](q Query[R], sel func(R) Int) ScalarQuery {
	return scalar(queryir.AggAvg, q, sel)
}

// MinOf returns the smallest sel over the rows of q.
func MinOf[R any](q Query[R], sel func(R) Int) ScalarQuery {
	return scalar(queryir.AggMin, q, sel)
}

// MaxOf returns the largest sel over the rows of q.
func MaxOf[R any](q Query[R], sel func(R) Int) ScalarQuery {
	return scalar(queryir.AggMax, q, sel)
}

func scalar[R any](fn queryir.AggFunc, q Query[R], sel func(R) Int) ScalarQuery {
	return ScalarQuery{node: &queryir.Scalar{
		Func:     fn,
		Source:   q.node,
		Selector: func(row any) queryir.Expr { return sel(row.(R)).Expr() },
	}}
}
