package queryir

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ColumnsAreMemoized(t *testing.T) {
	tbl := NewTable("customers", IntCol("Id"), StringCol("Name"))

	first := tbl.Int("Id").Expr()
	second := tbl.Int("Id").Expr()

	assert.Same(t, first, second, "repeated access must return the identical column")
	assert.Same(t, first, tbl.Column("Id"))
}

func TestTable_DistinctTablesHaveDistinctColumns(t *testing.T) {
	a := NewTable("customers", IntCol("Id"))
	b := NewTable("customers", IntCol("Id"))

	assert.NotSame(t, a.Int("Id").Expr(), b.Int("Id").Expr())
}

func TestTable_LazyDeclaration(t *testing.T) {
	tbl := NewTable("orders")
	assert.Nil(t, tbl.Column("Total"))

	total := tbl.Int("Total")
	col, ok := AsColumn(total.Expr())
	require.True(t, ok)
	assert.Equal(t, "Total", col.Name)
	assert.Equal(t, KindInt, col.Kind())
	assert.Equal(t, []ColumnDef{{Name: "Total", Kind: KindInt}}, tbl.Defs())
}

func TestTable_KindMismatchPanics(t *testing.T) {
	tbl := NewTable("orders", IntCol("Total"))
	assert.Panics(t, func() { tbl.String("Total") })
}

func TestTable_DuplicateColumnPanics(t *testing.T) {
	assert.Panics(t, func() { NewTable("t", IntCol("a"), StringCol("a")) })
}

func TestTable_NamesNormalizedToNFC(t *testing.T) {
	tbl := NewTable("café", StringCol("näme"))

	assert.Equal(t, "café", tbl.Name())
	assert.Same(t, tbl.Column("näme"), tbl.String("näme").Expr())
}

func TestTable_ColumnsInDeclarationOrder(t *testing.T) {
	tbl := NewTable("customers", IntCol("Id"), StringCol("Name"), IntCol("Age"))

	var names []string
	for _, c := range tbl.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Id", "Name", "Age"}, names)
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := NewTable("customers")

	var wg sync.WaitGroup
	got := make([]Expr, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = tbl.Int("Id").Expr()
		}(i)
	}
	wg.Wait()

	for _, e := range got {
		assert.Same(t, got[0], e)
	}
}
