package queryir

import "github.com/roach88/sqlfuse/internal/ir"

// Typed is implemented by the typed expression handles.
type Typed interface {
	Expr() Expr
}

// Bool is a boolean-valued expression.
type Bool struct{ expr Expr }

// Int is an integer-valued expression.
type Int struct{ expr Expr }

// String is a string-valued expression.
type String struct{ expr Expr }

// WrapBool wraps e as a Bool handle. The zero handle holds a nil Expr.
func WrapBool(e Expr) Bool { return Bool{expr: e} }

// WrapInt wraps e as an Int handle.
func WrapInt(e Expr) Int { return Int{expr: e} }

// WrapString wraps e as a String handle.
func WrapString(e Expr) String { return String{expr: e} }

func (b Bool) Expr() Expr   { return b.expr }
func (i Int) Expr() Expr    { return i.expr }
func (s String) Expr() Expr { return s.expr }

// Literals, parameters and NULL.

func BoolLit(v bool) Bool       { return Bool{&Literal{Value: ir.IRBool(v), K: KindBool}} }
func IntLit(v int64) Int        { return Int{&Literal{Value: ir.IRInt(v), K: KindInt}} }
func StringLit(v string) String { return String{&Literal{Value: ir.IRString(v), K: KindString}} }
func NullBool() Bool            { return Bool{&Null{K: KindBool}} }
func NullInt() Int              { return Int{&Null{K: KindInt}} }
func NullString() String        { return String{&Null{K: KindString}} }
func True() Bool                { return BoolLit(true) }
func False() Bool               { return BoolLit(false) }

func binary(op BinaryOp, l, r Expr) *Binary {
	return &Binary{Op: op, Left: l, Right: r}
}

// BoolParam declares a named parameter. Names must be unique per compilation
// unless every use binds an equal value.
func BoolParam(name string, v bool) Bool {
	return Bool{&Param{Name: name, Value: ir.IRBool(v), K: KindBool}}
}

func IntParam(name string, v int64) Int {
	return Int{&Param{Name: name, Value: ir.IRInt(v), K: KindInt}}
}

func StringParam(name string, v string) String {
	return String{&Param{Name: name, Value: ir.IRString(v), K: KindString}}
}

// Bool operators.

func (b Bool) And(o Bool) Bool { return Bool{binary(OpAnd, b.expr, o.expr)} }
func (b Bool) Or(o Bool) Bool  { return Bool{binary(OpOr, b.expr, o.expr)} }
func (b Bool) Not() Bool       { return Bool{&Unary{Op: OpNot, Operand: b.expr}} }
func (b Bool) Eq(o Bool) Bool  { return Bool{binary(OpEq, b.expr, o.expr)} }
func (b Bool) Ne(o Bool) Bool  { return Bool{binary(OpNe, b.expr, o.expr)} }

// Int operators.

func (i Int) Add(o Int) Int { return Int{binary(OpAdd, i.expr, o.expr)} }
func (i Int) Sub(o Int) Int { return Int{binary(OpSub, i.expr, o.expr)} }
func (i Int) Mul(o Int) Int { return Int{binary(OpMul, i.expr, o.expr)} }
func (i Int) Div(o Int) Int { return Int{binary(OpDiv, i.expr, o.expr)} }
func (i Int) Neg() Int      { return Int{&Unary{Op: OpNegate, Operand: i.expr}} }
func (i Int) Abs() Int      { return Int{&Unary{Op: OpAbs, Operand: i.expr}} }
func (i Int) Eq(o Int) Bool { return Bool{binary(OpEq, i.expr, o.expr)} }
func (i Int) Ne(o Int) Bool { return Bool{binary(OpNe, i.expr, o.expr)} }
func (i Int) Gt(o Int) Bool { return Bool{binary(OpGt, i.expr, o.expr)} }
func (i Int) Lt(o Int) Bool { return Bool{binary(OpLt, i.expr, o.expr)} }
func (i Int) Ge(o Int) Bool { return Bool{binary(OpGe, i.expr, o.expr)} }
func (i Int) Le(o Int) Bool { return Bool{binary(OpLe, i.expr, o.expr)} }
func (i Int) IsNull() Bool  { return i.Eq(NullInt()) }
func (i Int) NotNull() Bool { return i.Ne(NullInt()) }

// In tests membership in a literal list. An empty list is always false.
func (i Int) In(values ...int64) Bool {
	vals := make([]ir.IRValue, len(values))
	for n, v := range values {
		vals[n] = ir.IRInt(v)
	}
	return Bool{&InList{Subject: i.expr, Values: vals}}
}

// InQuery tests membership in the single column produced by q.
func (i Int) InQuery(q Query) Bool {
	return Bool{&InQuery{Subject: i.expr, Query: q}}
}

// String operators.

func (s String) Concat(o String) String { return String{binary(OpConcat, s.expr, o.expr)} }
func (s String) Eq(o String) Bool       { return Bool{binary(OpEq, s.expr, o.expr)} }
func (s String) Ne(o String) Bool       { return Bool{binary(OpNe, s.expr, o.expr)} }
func (s String) Gt(o String) Bool       { return Bool{binary(OpGt, s.expr, o.expr)} }
func (s String) Lt(o String) Bool       { return Bool{binary(OpLt, s.expr, o.expr)} }
func (s String) Ge(o String) Bool       { return Bool{binary(OpGe, s.expr, o.expr)} }
func (s String) Le(o String) Bool       { return Bool{binary(OpLe, s.expr, o.expr)} }
func (s String) IsNull() Bool           { return s.Eq(NullString()) }
func (s String) NotNull() Bool          { return s.Ne(NullString()) }

// Like matches s against a LIKE pattern bound as a parameter.
func (s String) Like(pattern string) Bool {
	return Bool{&Like{Subject: s.expr, Pattern: pattern}}
}

func (s String) In(values ...string) Bool {
	vals := make([]ir.IRValue, len(values))
	for n, v := range values {
		vals[n] = ir.IRString(v)
	}
	return Bool{&InList{Subject: s.expr, Values: vals}}
}

func (s String) InQuery(q Query) Bool {
	return Bool{&InQuery{Subject: s.expr, Query: q}}
}

// Conditionals.

func IfInt(cond Bool, then, els Int) Int {
	return Int{&Case{When: cond.expr, Then: then.expr, Else: els.expr}}
}

func IfString(cond Bool, then, els String) String {
	return String{&Case{When: cond.expr, Then: then.expr, Else: els.expr}}
}

func IfBool(cond Bool, then, els Bool) Bool {
	return Bool{&Case{When: cond.expr, Then: then.expr, Else: els.expr}}
}

// Aggregates, for use in grouped projections and HAVING.

func Sum(v Int) Int { return Int{&Aggregate{Func: AggSum, Arg: v.expr}} }
func Avg(v Int) Int { return Int{&Aggregate{Func: AggAvg, Arg: v.expr}} }
func Min(v Int) Int { return Int{&Aggregate{Func: AggMin, Arg: v.expr}} }
func Max(v Int) Int { return Int{&Aggregate{Func: AggMax, Arg: v.expr}} }

func MinString(v String) String {
	return String{&Aggregate{Func: AggMin, Arg: v.expr}}
}
func MaxString(v String) String {
	return String{&Aggregate{Func: AggMax, Arg: v.expr}}
}

// Count counts non-NULL values of v.
func Count(v Typed) Int { return Int{&Aggregate{Func: AggCount, Arg: v.Expr()}} }

// CountAll is COUNT(*).
func CountAll() Int { return Int{&Aggregate{Func: AggCount}} }
