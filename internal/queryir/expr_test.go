package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlfuse/internal/ir"
)

func TestExprKinds(t *testing.T) {
	c := customerRow{NewTable("customers", IntCol("Id"), StringCol("Name"))}

	tests := []struct {
		name string
		expr Expr
		want Kind
	}{
		{"arithmetic", c.Id().Add(IntLit(1)).Expr(), KindInt},
		{"concat", c.Name().Concat(StringLit("!")).Expr(), KindString},
		{"comparison", c.Id().Gt(IntLit(1)).Expr(), KindBool},
		{"not", True().Not().Expr(), KindBool},
		{"negate", c.Id().Neg().Expr(), KindInt},
		{"like", c.Name().Like("a%").Expr(), KindBool},
		{"case", IfString(True(), c.Name(), StringLit("x")).Expr(), KindString},
		{"count", Count(c.Name()).Expr(), KindInt},
		{"max string", MaxString(c.Name()).Expr(), KindString},
		{"in list", c.Id().In(1, 2).Expr(), KindBool},
		{"null", NullString().Expr(), KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.Kind())
		})
	}
}

func TestLiteralsAndParams(t *testing.T) {
	lit, ok := IntLit(18).Expr().(*Literal)
	require.True(t, ok)
	assert.Equal(t, ir.IRInt(18), lit.Value)

	p, ok := StringParam("who", "bob").Expr().(*Param)
	require.True(t, ok)
	assert.Equal(t, "who", p.Name)
	assert.Equal(t, ir.IRString("bob"), p.Value)

	assert.True(t, IsNull(NullInt().Expr()))
	assert.False(t, IsNull(IntLit(0).Expr()))
}

func TestInList_Empty(t *testing.T) {
	in, ok := IntLit(1).In().Expr().(*InList)
	require.True(t, ok)
	assert.Empty(t, in.Values)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("integer")
	require.NoError(t, err)
	assert.Equal(t, KindInt, k)

	_, err = ParseKind("float")
	assert.Error(t, err)
}

func TestBinaryOpClassification(t *testing.T) {
	assert.True(t, OpDiv.IsArithmetic())
	assert.False(t, OpConcat.IsArithmetic())
	assert.True(t, OpOr.IsLogical())
	assert.True(t, OpLe.IsComparison())
	assert.Equal(t, "<>", OpNe.Symbol())
}
