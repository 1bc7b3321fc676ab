package sqlfuse

import (
	"github.com/roach88/sqlfuse/internal/querysql"
)

// Compile compiles a query for d.
func Compile[R any](q Query[R], d Dialect) (Result, error) {
	return querysql.NewSQLCompiler(d).Compile(q.node)
}

// CompileScalar compiles a scalar aggregate as a standalone query.
func CompileScalar(s ScalarQuery, d Dialect) (Result, error) {
	return querysql.NewSQLCompiler(d).Compile(s.node)
}

// CompileStatement compiles an INSERT, UPDATE or DELETE for d.
func CompileStatement(s Statement, d Dialect) (Result, error) {
	return querysql.NewSQLCompiler(d).CompileStatement(s.Node())
}

// CompileExpr compiles a standalone expression. Columns render as
// table.col since no table is aliased.
func CompileExpr(e Typed, d Dialect) (Result, error) {
	return querysql.NewSQLCompiler(d).CompileExpr(e.Expr())
}
