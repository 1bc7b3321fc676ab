package sqlfuse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlfuse"
)

type Customers struct{ *sqlfuse.Table }

func (c Customers) Id() sqlfuse.Int      { return c.Int("Id") }
func (c Customers) Name() sqlfuse.String { return c.String("Name") }
func (c Customers) Age() sqlfuse.Int     { return c.Int("Age") }

type Orders struct{ *sqlfuse.Table }

func (o Orders) Id() sqlfuse.Int         { return o.Int("Id") }
func (o Orders) CustomerId() sqlfuse.Int { return o.Int("CustomerId") }
func (o Orders) Total() sqlfuse.Int      { return o.Int("Total") }

type Items struct{ *sqlfuse.Table }

func (i Items) OrderId() sqlfuse.Int { return i.Int("OrderId") }
func (i Items) Sku() sqlfuse.String  { return i.String("Sku") }

func newCustomers() Customers { return Customers{sqlfuse.NewTable("customers")} }
func newOrders() Orders       { return Orders{sqlfuse.NewTable("orders")} }
func newItems() Items         { return Items{sqlfuse.NewTable("items")} }

func isAdult(c Customers) sqlfuse.Bool { return c.Age().Gt(sqlfuse.IntLit(18)) }

func TestCompile_ReferenceQuery(t *testing.T) {
	customers := newCustomers()
	q := sqlfuse.Select(
		sqlfuse.From(customers).
			Where(isAdult).
			OrderBy(func(c Customers) sqlfuse.Typed { return c.Name() }),
		func(c Customers) []any {
			return []any{c.Id().Add(sqlfuse.IntLit(1)), c.Name().Concat(sqlfuse.StringLit("!"))}
		})

	res, err := sqlfuse.Compile(q, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT (a0.Id + @p0) AS prj0, CONCAT(a0.Name, @p1) AS prj1 FROM customers a0 WHERE a0.Age > @p2 ORDER BY a0.Name ASC",
		res.SQL)
	assert.Equal(t, map[string]any{"@p0": int64(1), "@p1": "!", "@p2": int64(18)}, res.ParamMap())

	res, err = sqlfuse.Compile(q, sqlfuse.SQLite)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT (a0.Id + :p0) AS prj0, CONCAT(a0.Name, :p1) AS prj1 FROM customers a0 WHERE a0.Age > :p2 ORDER BY a0.Name ASC",
		res.SQL)
}

func TestFusion_PreservesOutput(t *testing.T) {
	named := func(c Customers) sqlfuse.Bool { return c.Name().NotNull() }

	tests := []struct {
		name    string
		stacked func(c Customers) sqlfuse.Query[sqlfuse.String]
		fused   func(c Customers) sqlfuse.Query[sqlfuse.String]
	}{
		{
			name: "filters",
			stacked: func(c Customers) sqlfuse.Query[sqlfuse.String] {
				return sqlfuse.Select(sqlfuse.From(c).Where(isAdult).Where(named), Customers.Name)
			},
			fused: func(c Customers) sqlfuse.Query[sqlfuse.String] {
				both := func(c Customers) sqlfuse.Bool { return isAdult(c).And(named(c)) }
				return sqlfuse.Select(sqlfuse.From(c).Where(both), Customers.Name)
			},
		},
		{
			name: "projections",
			stacked: func(c Customers) sqlfuse.Query[sqlfuse.String] {
				return sqlfuse.Select(sqlfuse.Select(sqlfuse.From(c), func(c Customers) Customers { return c }), Customers.Name)
			},
			fused: func(c Customers) sqlfuse.Query[sqlfuse.String] {
				return sqlfuse.Select(sqlfuse.From(c), Customers.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := sqlfuse.Compile(tt.stacked(newCustomers()), sqlfuse.SQLServer)
			require.NoError(t, err)
			b, err := sqlfuse.Compile(tt.fused(newCustomers()), sqlfuse.SQLServer)
			require.NoError(t, err)
			assert.Equal(t, b, a)
		})
	}
}

func TestFromQuery(t *testing.T) {
	customers := newCustomers()
	inner := sqlfuse.From(customers).Where(isAdult)
	q := sqlfuse.Select(
		sqlfuse.FromQuery(inner).OrderBy(func(c Customers) sqlfuse.Typed { return c.Name() }),
		Customers.Name)

	res, err := sqlfuse.Compile(q, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT a1.Name AS Name FROM (SELECT * FROM customers a0 WHERE a0.Age > @p0) a1 ORDER BY a1.Name ASC",
		res.SQL)
}

func TestGroupBy(t *testing.T) {
	type ageGroup = sqlfuse.Group[sqlfuse.Int, Customers]
	customers := newCustomers()
	groups := sqlfuse.GroupBy(sqlfuse.From(customers), Customers.Age)

	q := sqlfuse.Select(
		groups.Having(func(g ageGroup) sqlfuse.Bool { return sqlfuse.CountAll().Gt(sqlfuse.IntLit(1)) }),
		func(g ageGroup) []any { return []any{g.Key, sqlfuse.Max(g.Rows.Id())} })

	res, err := sqlfuse.Compile(q, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT a0.Age AS Age, MAX(a0.Id) AS prj1 FROM customers a0 GROUP BY a0.Age HAVING COUNT(*) > @p0",
		res.SQL)

	res, err = sqlfuse.Compile(groups, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a0.Age AS Age FROM customers a0 GROUP BY a0.Age", res.SQL)
}

func TestJoin(t *testing.T) {
	type customerOrder struct {
		C Customers
		O Orders
	}
	customers, orders, items := newCustomers(), newOrders(), newItems()

	withOrders := sqlfuse.Join(sqlfuse.From(customers), orders,
		Customers.Id, Orders.CustomerId,
		func(c Customers, o Orders) customerOrder { return customerOrder{c, o} })
	withItems := sqlfuse.LeftJoin(withOrders.Where(func(r customerOrder) sqlfuse.Bool { return r.O.Total().Gt(sqlfuse.IntLit(0)) }), items,
		func(r customerOrder) sqlfuse.Int { return r.O.Id() }, Items.OrderId,
		func(r customerOrder, i Items) []any { return []any{r.C.Name(), r.O.Total(), i.Sku()} })

	_, err := sqlfuse.Compile(withItems, sqlfuse.SQLServer)
	require.Error(t, err, "a join over a filtered join is not a single select")
	assert.True(t, sqlfuse.HasCode(err, "UNSUPPORTED_QUERY_SHAPE"))

	withItems = sqlfuse.LeftJoin(withOrders, items,
		func(r customerOrder) sqlfuse.Int { return r.O.Id() }, Items.OrderId,
		func(r customerOrder, i Items) []any { return []any{r.C.Name(), r.O.Total(), i.Sku()} })
	res, err := sqlfuse.Compile(withItems, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT a0.Name AS Name, a1.Total AS Total, a2.Sku AS Sku FROM customers a0 INNER JOIN orders a1 ON a0.Id = a1.CustomerId LEFT JOIN items a2 ON a1.Id = a2.OrderId",
		res.SQL)
}

func TestScalarQueries(t *testing.T) {
	customers, orders := newCustomers(), newOrders()

	res, err := sqlfuse.CompileScalar(sqlfuse.CountOf(sqlfuse.From(customers).Where(isAdult)), sqlfuse.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS prj0 FROM customers a0 WHERE a0.Age > :p0", res.SQL)

	res, err = sqlfuse.CompileScalar(sqlfuse.SumOf(sqlfuse.From(orders), Orders.Total), sqlfuse.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "SELECT SUM(a0.Total) AS prj0 FROM orders a0", res.SQL)

	q := sqlfuse.Select(sqlfuse.From(customers), func(c Customers) []any {
		spent := sqlfuse.SumOf(
			sqlfuse.From(orders).Where(func(o Orders) sqlfuse.Bool { return o.CustomerId().Eq(c.Id()) }),
			Orders.Total)
		return []any{c.Name(), spent.Value()}
	})
	res, err = sqlfuse.Compile(q, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT a0.Name AS Name, (SELECT SUM(a1.Total) AS prj0 FROM orders a1 WHERE a1.CustomerId = a0.Id) AS prj1 FROM customers a0",
		res.SQL)
}

func TestInSubquery(t *testing.T) {
	customers, orders := newCustomers(), newOrders()
	buyers := sqlfuse.Select(sqlfuse.From(orders), Orders.CustomerId)
	q := sqlfuse.From(customers).Where(func(c Customers) sqlfuse.Bool { return sqlfuse.InInts(c.Id(), buyers) })

	res, err := sqlfuse.Compile(q, sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM customers a0 WHERE a0.Id IN (SELECT a1.CustomerId AS CustomerId FROM orders a1)",
		res.SQL)
}

func TestStatements(t *testing.T) {
	customers := newCustomers()

	tests := []struct {
		name string
		stmt sqlfuse.Statement
		sql  string
	}{
		{
			name: "insert",
			stmt: sqlfuse.InsertInto(customers).
				Value(sqlfuse.Assign(customers.Id(), sqlfuse.IntLit(1))).
				Value(sqlfuse.Assign(customers.Name(), sqlfuse.StringLit("x"))),
			sql: "INSERT INTO customers (Id, Name) VALUES (:p0, :p1)",
		},
		{
			name: "update",
			stmt: sqlfuse.Update(customers).
				Set(sqlfuse.Assign(customers.Name(), sqlfuse.StringLit("y"))).
				Where(func(c Customers) sqlfuse.Bool { return c.Id().Eq(sqlfuse.IntLit(1)) }),
			sql: "UPDATE customers SET Name = :p0 WHERE customers.Id = :p1",
		},
		{
			name: "delete",
			stmt: sqlfuse.DeleteFrom(customers).
				Where(func(c Customers) sqlfuse.Bool { return c.Age().Lt(sqlfuse.IntLit(18)) }),
			sql: "DELETE FROM customers WHERE customers.Age < :p0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sqlfuse.CompileStatement(tt.stmt, sqlfuse.SQLite)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, res.SQL)
		})
	}

	_, err := sqlfuse.CompileStatement(sqlfuse.Update(customers), sqlfuse.SQLite)
	assert.True(t, sqlfuse.HasCode(err, "EMPTY_UPDATE"))
}

func TestCompileExpr(t *testing.T) {
	res, err := sqlfuse.CompileExpr(isAdult(newCustomers()), sqlfuse.SQLServer)
	require.NoError(t, err)
	assert.Equal(t, "customers.Age > @p0", res.SQL)
}
