// Package sqlfuse builds SQL from typed query expressions.
//
// Queries are composed from table rows and lambdas over them. Adjacent
// operators fuse into a single SELECT before compilation, so stacking
// filters, sorts and projections never produces nested subqueries:
//
//	type Customers struct{ *sqlfuse.Table }
//
//	func (c Customers) Id() sqlfuse.Int      { return c.Int("Id") }
//	func (c Customers) Name() sqlfuse.String { return c.String("Name") }
//	func (c Customers) Age() sqlfuse.Int     { return c.Int("Age") }
//
//	customers := Customers{sqlfuse.NewTable("customers")}
//	q := sqlfuse.Select(
//	    sqlfuse.From(customers).
//	        Where(func(c Customers) sqlfuse.Bool { return c.Age().Gt(sqlfuse.IntLit(18)) }).
//	        OrderBy(func(c Customers) sqlfuse.Typed { return c.Name() }),
//	    func(c Customers) []any { return []any{c.Id(), c.Name()} })
//	res, err := sqlfuse.Compile(q, sqlfuse.SQLServer)
//
// Every literal is bound as a parameter; res.SQL never contains values.
package sqlfuse

import (
	"github.com/roach88/sqlfuse/internal/queryir"
	"github.com/roach88/sqlfuse/internal/querysql"
)

type (
	Table     = queryir.Table
	ColumnDef = queryir.ColumnDef
	Kind      = queryir.Kind
	Relation  = queryir.Relation
	Expr      = queryir.Expr
	Typed     = queryir.Typed
	Bool      = queryir.Bool
	Int       = queryir.Int
	String    = queryir.String

	Dialect      = querysql.Dialect
	Result       = querysql.Result
	Param        = querysql.Param
	CompileError = querysql.CompileError
	ErrorCode    = querysql.ErrorCode
)

const (
	KindBool   = queryir.KindBool
	KindInt    = queryir.KindInt
	KindString = queryir.KindString
)

var (
	SQLServer = querysql.SQLServer
	SQLite    = querysql.SQLite

	LookupDialect = querysql.LookupDialect

	NewTable  = queryir.NewTable
	BoolCol   = queryir.BoolCol
	IntCol    = queryir.IntCol
	StringCol = queryir.StringCol

	BoolLit     = queryir.BoolLit
	IntLit      = queryir.IntLit
	StringLit   = queryir.StringLit
	BoolParam   = queryir.BoolParam
	IntParam    = queryir.IntParam
	StringParam = queryir.StringParam
	NullBool    = queryir.NullBool
	NullInt     = queryir.NullInt
	NullString  = queryir.NullString
	True        = queryir.True
	False       = queryir.False

	IfInt    = queryir.IfInt
	IfString = queryir.IfString
	IfBool   = queryir.IfBool

	Sum       = queryir.Sum
	Avg       = queryir.Avg
	Min       = queryir.Min
	Max       = queryir.Max
	MinString = queryir.MinString
	MaxString = queryir.MaxString
	Count     = queryir.Count
	CountAll  = queryir.CountAll

	HasCode          = querysql.HasCode
	IsUsageError     = querysql.IsUsageError
	IsInvariantError = querysql.IsInvariantError
)
