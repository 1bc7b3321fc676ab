// Package queryir provides the expression and query algebra that sqlfuse
// normalizes and compiles.
//
// ARCHITECTURE:
//
//	[typed lambdas] → [queryir tree] → [normalize] → [querysql]
//
// The facade in the root package turns user lambdas over typed rows into
// untyped closures stored on query nodes. Nothing in this package renders SQL.
//
// EXPRESSIONS:
//
// Expr is a sealed interface implemented only by pointer types in this
// package. Interface values therefore compare by pointer identity, which the
// compiler relies on when it maps a projected expression to the alias that
// exposes it from a subquery. Two structurally equal expressions built
// separately are distinct keys.
//
// Typed handles (Bool, Int, String) wrap an Expr and only offer the operators
// valid for their kind, so `c.Age().Gt(IntLit(18))` type-checks while
// comparing an Int with a String does not.
//
// QUERIES:
//
// Query and Statement are sealed interfaces using the marker method pattern.
// Query nodes hold their child node plus a transformation function that is
// evaluated against a placeholder row (a table row struct or an upstream
// projection) to obtain concrete expressions:
//
//	switch q := query.(type) {
//	case *From:
//	    // table access
//	case *Where:
//	    // q.Predicate(row) yields the condition
//	...
//	}
//
// Tables memoize their column expressions so that repeated accessor calls on
// the same table return the identical *Column.
package queryir
