package queryir

// Statement is a node of a data-modification chain. Each builder step wraps
// the previous one, so the chain reads innermost-first.
//
// This is a sealed interface - only types in this package implement it.
// Predicates and values are evaluated eagerly against the table row when
// the chain is built.
type Statement interface {
	statementNode() // Marker method - seals interface to this package
}

// Insert starts an INSERT chain.
type Insert struct {
	Table *Table
}

// Value adds one column value to an INSERT.
type Value struct {
	Inner  Statement
	Column Expr
	Value  Expr
}

// Update starts an UPDATE chain.
type Update struct {
	Table *Table
}

// Set adds one assignment to an UPDATE.
type Set struct {
	Inner  Statement
	Column Expr
	Value  Expr
}

// UpdateWhere filters an UPDATE.
type UpdateWhere struct {
	Inner     Statement
	Predicate Expr
}

// Delete starts a DELETE chain.
type Delete struct {
	Table *Table
}

// DeleteWhere filters a DELETE.
type DeleteWhere struct {
	Inner     Statement
	Predicate Expr
}

func (*Insert) statementNode()      {}
func (*Value) statementNode()       {}
func (*Update) statementNode()      {}
func (*Set) statementNode()         {}
func (*UpdateWhere) statementNode() {}
func (*Delete) statementNode()      {}
func (*DeleteWhere) statementNode() {}

// Plan is a fused statement, ready to compile.
type Plan interface {
	planNode()
}

// Assignment pairs a target column with a value.
type Assignment struct {
	Column Expr
	Value  Expr
}

// InsertPlan lists column values in the order they were added.
type InsertPlan struct {
	Table  *Table
	Values []Assignment
}

// UpdatePlan lists assignments in the order they were added. Where is nil
// when the chain has no filter.
type UpdatePlan struct {
	Table *Table
	Sets  []Assignment
	Where Expr
}

// DeletePlan deletes rows matching Where, or every row when Where is nil.
type DeletePlan struct {
	Table *Table
	Where Expr
}

func (*InsertPlan) planNode() {}
func (*UpdatePlan) planNode() {}
func (*DeletePlan) planNode() {}
