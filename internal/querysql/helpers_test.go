package querysql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlfuse/internal/ir"
	"github.com/roach88/sqlfuse/internal/queryir"
)

type customers struct{ *queryir.Table }

func (c customers) Id() queryir.Int      { return c.Int("Id") }
func (c customers) Name() queryir.String { return c.String("Name") }
func (c customers) Age() queryir.Int     { return c.Int("Age") }

type orders struct{ *queryir.Table }

func (o orders) Id() queryir.Int         { return o.Int("Id") }
func (o orders) CustomerId() queryir.Int { return o.Int("CustomerId") }
func (o orders) Total() queryir.Int      { return o.Int("Total") }

func newCustomers() customers {
	return customers{queryir.NewTable("customers",
		queryir.IntCol("Id"), queryir.StringCol("Name"), queryir.IntCol("Age"))}
}

func newOrders() orders {
	return orders{queryir.NewTable("orders",
		queryir.IntCol("Id"), queryir.IntCol("CustomerId"), queryir.IntCol("Total"))}
}

func from(r queryir.Relation) *queryir.From {
	return &queryir.From{Table: r.Source(), Row: r}
}

func where[R any](src queryir.Query, f func(R) queryir.Bool) *queryir.Where {
	return &queryir.Where{Source: src, Predicate: func(row any) queryir.Expr { return f(row.(R)).Expr() }}
}

func project[R any](src queryir.Query, f func(R) any) *queryir.Select {
	return &queryir.Select{Source: src, Projector: func(row any) any { return f(row.(R)) }}
}

func orderBy[R any](src queryir.Query, f func(R) queryir.Typed, desc bool) *queryir.OrderBy {
	return &queryir.OrderBy{Source: src, Keys: []queryir.SortKey{{
		Key:  func(row any) queryir.Expr { return f(row.(R)).Expr() },
		Desc: desc,
	}}}
}

// adultsQuery is the reference query: customers over 18, ordered by name,
// projected to (Id + 1, Name + "!").
func adultsQuery(c customers) queryir.Query {
	return project(
		orderBy(
			where(from(c), func(c customers) queryir.Bool { return c.Age().Gt(queryir.IntLit(18)) }),
			func(c customers) queryir.Typed { return c.Name() }, false),
		func(c customers) any {
			return []any{c.Id().Add(queryir.IntLit(1)), c.Name().Concat(queryir.StringLit("!"))}
		})
}

func compile(t *testing.T, d Dialect, q queryir.Query) Result {
	t.Helper()
	res, err := NewSQLCompiler(d).Compile(q)
	require.NoError(t, err)
	return res
}

// assertGoldenResult compares a result, as canonical JSON, against
// testdata/golden/{name}.golden.
func assertGoldenResult(t *testing.T, name string, res Result) {
	t.Helper()

	params := make([]any, len(res.Params))
	for i, p := range res.Params {
		params[i] = map[string]any{"name": p.Placeholder, "value": p.Value}
	}
	data, err := ir.MarshalCanonical(map[string]any{
		"dialect": res.Dialect,
		"sql":     res.SQL,
		"params":  params,
	})
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
