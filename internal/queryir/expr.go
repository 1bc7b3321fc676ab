package queryir

import (
	"fmt"

	"github.com/roach88/sqlfuse/internal/ir"
)

// Kind is the value kind of an expression.
type Kind int

const (
	KindBool Kind = iota + 1
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a schema type name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "string", "text":
		return KindString, nil
	default:
		return 0, fmt.Errorf("unknown column type %q: must be one of bool, int, string", s)
	}
}

// Expr is a node of an expression tree.
//
// This is a sealed interface - only pointer types in this package implement
// it. Expression trees are immutable once built.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
	Kind() Kind
}

// Literal is a constant. The compiler always binds it as a parameter.
type Literal struct {
	Value ir.IRValue
	K     Kind
}

// Column references a column of a table.
type Column struct {
	Table *Table
	Name  string
	K     Kind
}

// Param is a user-named parameter placeholder with its bound value.
type Param struct {
	Name  string
	Value ir.IRValue
	K     Kind
}

// Null is the SQL NULL sentinel of a given kind.
type Null struct {
	K Kind
}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpConcat
	OpAnd
	OpOr
	OpEq
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpConcat: "CONCAT",
	OpAnd:    "AND",
	OpOr:     "OR",
	OpEq:     "=",
	OpNe:     "<>",
	OpGt:     ">",
	OpLt:     "<",
	OpGe:     ">=",
	OpLe:     "<=",
}

// Symbol returns the SQL spelling of the operator.
func (op BinaryOp) Symbol() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

func (op BinaryOp) String() string { return op.Symbol() }

// IsArithmetic reports whether op is +, -, * or /.
func (op BinaryOp) IsArithmetic() bool {
	return op >= OpAdd && op <= OpDiv
}

// IsLogical reports whether op is AND or OR.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// IsComparison reports whether op compares its operands.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpLe
}

// Binary applies a binary operator.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota + 1
	OpNegate
	OpAbs
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "NOT"
	case OpNegate:
		return "-"
	case OpAbs:
		return "ABS"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

// Unary applies a unary operator.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// Like matches Subject against a LIKE pattern.
type Like struct {
	Subject Expr
	Pattern string
}

// Case is CASE WHEN When THEN Then ELSE Else END.
type Case struct {
	When, Then, Else Expr
}

// AggFunc enumerates aggregate functions.
type AggFunc int

const (
	AggSum AggFunc = iota + 1
	AggCount
	AggAvg
	AggMin
	AggMax
)

func (f AggFunc) String() string {
	switch f {
	case AggSum:
		return "SUM"
	case AggCount:
		return "COUNT"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return fmt.Sprintf("AggFunc(%d)", int(f))
	}
}

// Aggregate applies an aggregate function. A Count with a nil Arg is COUNT(*).
type Aggregate struct {
	Func AggFunc
	Arg  Expr
}

// InList tests Subject against a literal list.
type InList struct {
	Subject Expr
	Values  []ir.IRValue
}

// InQuery tests Subject against the single column produced by Query.
type InQuery struct {
	Subject Expr
	Query   Query
}

// Subquery is a query producing a single value used in expression position.
type Subquery struct {
	Query Query
	K     Kind
}

func (*Literal) exprNode()   {}
func (*Column) exprNode()    {}
func (*Param) exprNode()     {}
func (*Null) exprNode()      {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Like) exprNode()      {}
func (*Case) exprNode()      {}
func (*Aggregate) exprNode() {}
func (*InList) exprNode()    {}
func (*InQuery) exprNode()   {}
func (*Subquery) exprNode()  {}

func (e *Literal) Kind() Kind  { return e.K }
func (e *Column) Kind() Kind   { return e.K }
func (e *Param) Kind() Kind    { return e.K }
func (e *Null) Kind() Kind     { return e.K }
func (e *Subquery) Kind() Kind { return e.K }
func (*Like) Kind() Kind       { return KindBool }
func (*InList) Kind() Kind     { return KindBool }
func (*InQuery) Kind() Kind    { return KindBool }

func (e *Binary) Kind() Kind {
	switch {
	case e.Op.IsArithmetic():
		return KindInt
	case e.Op == OpConcat:
		return KindString
	default:
		return KindBool
	}
}

func (e *Unary) Kind() Kind {
	if e.Op == OpNot {
		return KindBool
	}
	return e.Operand.Kind()
}

func (e *Case) Kind() Kind { return e.Then.Kind() }

func (e *Aggregate) Kind() Kind {
	if e.Func == AggCount || e.Arg == nil {
		return KindInt
	}
	return e.Arg.Kind()
}

// IsNull reports whether e is the NULL sentinel.
func IsNull(e Expr) bool {
	_, ok := e.(*Null)
	return ok
}

// AsColumn returns e as a column reference.
func AsColumn(e Expr) (*Column, bool) {
	c, ok := e.(*Column)
	return c, ok
}
