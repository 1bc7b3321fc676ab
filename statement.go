package sqlfuse

import (
	"github.com/roach88/sqlfuse/internal/queryir"
)

// Statement is a buildable INSERT, UPDATE or DELETE.
type Statement interface {
	Node() queryir.Statement
}

// Assignment pairs a column with the value written to it.
type Assignment struct {
	column Expr
	value  Expr
}

// Assign builds an assignment. The column must belong to the statement's
// table; this is checked at compile time.
func Assign[T interface {
	Int | String | Bool
	Expr() Expr
}](column, value T) Assignment {
	return Assignment{column: column.Expr(), value: value.Expr()}
}

// InsertStatement inserts one row into a table.
type InsertStatement[R Relation] struct {
	row  R
	node queryir.Statement
}

// InsertInto starts an INSERT.
func InsertInto[R Relation](row R) InsertStatement[R] {
	return InsertStatement[R]{row: row, node: &queryir.Insert{Table: row.Source()}}
}

// Value adds a column value.
func (s InsertStatement[R]) Value(a Assignment) InsertStatement[R] {
	return InsertStatement[R]{row: s.row, node: &queryir.Value{Inner: s.node, Column: a.column, Value: a.value}}
}

func (s InsertStatement[R]) Node() queryir.Statement { return s.node }

// UpdateStatement updates rows of a table.
type UpdateStatement[R Relation] struct {
	row  R
	node queryir.Statement
}

// Update starts an UPDATE.
func Update[R Relation](row R) UpdateStatement[R] {
	return UpdateStatement[R]{row: row, node: &queryir.Update{Table: row.Source()}}
}

// Set adds an assignment.
func (s UpdateStatement[R]) Set(a Assignment) UpdateStatement[R] {
	return UpdateStatement[R]{row: s.row, node: &queryir.Set{Inner: s.node, Column: a.column, Value: a.value}}
}

// Where restricts the updated rows. Successive filters are ANDed.
func (s UpdateStatement[R]) Where(pred func(R) Bool) UpdateStatement[R] {
	return UpdateStatement[R]{row: s.row, node: &queryir.UpdateWhere{Inner: s.node, Predicate: pred(s.row).Expr()}}
}

func (s UpdateStatement[R]) Node() queryir.Statement { return s.node }

// DeleteStatement deletes rows of a table.
type DeleteStatement[R Relation] struct {
	row  R
	node queryir.Statement
}

// DeleteFrom starts a DELETE. Without Where it deletes every row.
func DeleteFrom[R Relation](row R) DeleteStatement[R] {
	return DeleteStatement[R]{row: row, node: &queryir.Delete{Table: row.Source()}}
}

// Where restricts the deleted rows. Successive filters are ANDed.
func (s DeleteStatement[R]) Where(pred func(R) Bool) DeleteStatement[R] {
	return DeleteStatement[R]{row: s.row, node: &queryir.DeleteWhere{Inner: s.node, Predicate: pred(s.row).Expr()}}
}

func (s DeleteStatement[R]) Node() queryir.Statement { return s.node }
