package queryir

// Query is a node of a query tree.
//
// This is a sealed interface - only types in this package implement it.
// Transformation functions on nodes take the placeholder row produced by
// the child node: a table row for From, the projected value for Select,
// the grouped row for GroupBy.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// RowFunc maps a placeholder row to another row value.
type RowFunc func(row any) any

// ExprFunc maps a placeholder row to an expression.
type ExprFunc func(row any) Expr

// From reads a table. Row is the placeholder row handed to downstream
// functions; its Source() is Table.
type From struct {
	Table *Table
	Row   any
}

// FromSubquery reads the result of another query.
type FromSubquery struct {
	Query Query
}

// Select projects each row. Identity marks a projection known to return its
// input unchanged.
type Select struct {
	Source    Query
	Projector RowFunc
	Identity  bool
}

// Where filters rows.
type Where struct {
	Source    Query
	Predicate ExprFunc
}

// SortKey is one ORDER BY key.
type SortKey struct {
	Key  ExprFunc
	Desc bool
}

// OrderBy sorts rows. Keys are applied in order, the first being primary.
type OrderBy struct {
	Source Query
	Keys   []SortKey
}

// GroupBy groups rows by Key. Group builds the grouped row from the key
// value and the upstream row. Having is nil when no group filter applies.
type GroupBy struct {
	Source Query
	Key    RowFunc
	Group  func(key, row any) any
	Having ExprFunc
}

// Having filters groups. It only compiles once fused into a GroupBy.
type Having struct {
	Source    Query
	Predicate ExprFunc
}

// JoinKind distinguishes inner and left outer joins.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
)

// SQL returns the join keyword.
func (k JoinKind) SQL() string {
	if k == JoinLeft {
		return "LEFT JOIN"
	}
	return "INNER JOIN"
}

// JoinLeg joins one table onto the running row. Result combines the running
// row with the leg's row into the next running row.
type JoinLeg struct {
	Kind     JoinKind
	Table    *Table
	Row      any
	OuterKey ExprFunc
	InnerKey ExprFunc
	Result   func(outer, inner any) any
}

// Join joins one or more tables onto Outer, leg by leg.
type Join struct {
	Outer Query
	Legs  []JoinLeg
}

// Scalar aggregates Source down to a single value. Selector is nil for
// COUNT(*).
type Scalar struct {
	Func     AggFunc
	Source   Query
	Selector ExprFunc
}

func (*From) queryNode()         {}
func (*FromSubquery) queryNode() {}
func (*Select) queryNode()       {}
func (*Where) queryNode()        {}
func (*OrderBy) queryNode()      {}
func (*GroupBy) queryNode()      {}
func (*Having) queryNode()       {}
func (*Join) queryNode()         {}
func (*Scalar) queryNode()       {}

// Grouped is implemented by grouped row values. The key is what a grouped
// row projects to when selected as a whole.
type Grouped interface {
	GroupKey() any
}
