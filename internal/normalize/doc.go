// Package normalize rewrites query trees and statement chains into the
// shapes the SQL compiler accepts.
//
// Query normalization applies local fusion rules until a pass makes no
// change, then canonicalizes:
//
//	Where(Where(q, p1), p2)         → Where(q, p1 AND p2)
//	OrderBy(OrderBy(q, k1), k2)     → OrderBy(q, k1 ++ k2)
//	Select(Select(q, f), g)         → Select(q, g ∘ f)
//	Having(GroupBy(q, k, h), p)     → GroupBy(q, k, h AND p)
//	Join(Join(q, l1), l2)           → Join(q, l1 ++ l2)
//	Scalar(f, q, s)                 → Select(q, row => f(s(row)))
//
// Each rule removes a node or lowers a Scalar, so the loop terminates. A tree
// whose root is not a Select is wrapped in an identity Select.
//
// Statement normalization folds a builder chain into a single plan.
package normalize
