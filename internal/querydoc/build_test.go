package querydoc

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlfuse/internal/querysql"
	"github.com/roach88/sqlfuse/internal/schema"
)

func loadCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	cat, err := schema.Load("../schema/testdata/catalog.yaml")
	require.NoError(t, err)
	return cat
}

func TestBuild_Document(t *testing.T) {
	doc, err := Load("testdata/queries.yaml")
	require.NoError(t, err)

	entries, err := doc.Build(loadCatalog(t))
	require.NoError(t, err)
	require.Len(t, entries, 6)

	tests := []struct {
		name   string
		sql    string
		params map[string]any
	}{
		{
			name:   "adults",
			sql:    "SELECT a0.Id AS Id, a0.Name AS Name FROM customers a0 WHERE (a0.Age > @p0) AND (a0.Name IS NOT NULL) ORDER BY a0.Name ASC",
			params: map[string]any{"@p0": int64(18)},
		},
		{
			name:   "named",
			sql:    "SELECT * FROM customers a0 WHERE a0.Name IN (@p0, @p1)",
			params: map[string]any{"@p0": "Al", "@p1": "Bob"},
		},
		{
			name:   "big_orders",
			sql:    "SELECT COUNT(*) AS prj0 FROM orders a0 WHERE a0.Total >= @min",
			params: map[string]any{"@min": int64(100)},
		},
		{
			name:   "rename",
			sql:    "UPDATE customers SET Name = @p0 WHERE customers.Id = @id",
			params: map[string]any{"@p0": "Bob", "@id": int64(1)},
		},
		{
			name:   "add",
			sql:    "INSERT INTO customers (Id, Name) VALUES (@p0, @p1)",
			params: map[string]any{"@p0": int64(7), "@p1": "Cy"},
		},
		{
			name:   "purge",
			sql:    "DELETE FROM customers WHERE (customers.Age < @p0) AND (customers.Name LIKE @p1)",
			params: map[string]any{"@p0": int64(18), "@p1": "A%"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, entries[i].Name)
			res, err := entries[i].Compile(querysql.SQLServer)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, res.SQL)
			assert.Equal(t, tt.params, res.ParamMap())
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown table",
			doc:     "queries: [{name: q, from: nope}]",
			wantErr: `q: unknown table "nope"`,
		},
		{
			name:    "unknown column",
			doc:     "queries: [{name: q, from: customers, select: [Email]}]",
			wantErr: `q: table customers has no column "Email"`,
		},
		{
			name:    "bad integer",
			doc:     "queries: [{name: q, from: customers, where: [{column: Age, op: gt, value: old}]}]",
			wantErr: "q: column Age: value old is not an integer",
		},
		{
			name:    "like on int",
			doc:     "queries: [{name: q, from: customers, where: [{column: Age, op: like, value: 1}]}]",
			wantErr: `q: operator "like" not supported on int columns`,
		},
		{
			name:    "gt on bool",
			doc:     "queries: [{name: q, from: orders, where: [{column: Paid, op: gt, value: true}]}]",
			wantErr: `q: operator "gt" not supported on bool column Paid`,
		},
		{
			name:    "count with select",
			doc:     "queries: [{name: q, from: customers, count: true, select: [Id]}]",
			wantErr: "q: count excludes select and order_by",
		},
		{
			name:    "two verbs",
			doc:     "statements: [{name: s, insert: customers, delete: customers}]",
			wantErr: "s: statement must set exactly one of insert, update, delete",
		},
		{
			name:    "insert with where",
			doc:     "statements: [{name: s, insert: customers, where: [{column: Id, op: eq, value: 1}]}]",
			wantErr: "s: insert takes values only",
		},
		{
			name:    "param without value",
			doc:     "statements: [{name: s, delete: customers, where: [{column: Id, op: eq, param: id}]}]",
			wantErr: `s: column Id: parameter "id" needs a value`,
		},
	}

	cat := loadCatalog(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.doc))
			require.NoError(t, err)

			_, err = doc.Build(cat)
			var buildErr *BuildError
			require.ErrorAs(t, err, &buildErr)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestBuild_NullAndBoolConditions(t *testing.T) {
	doc, err := Parse([]byte(`
queries:
  - name: unpaid
    from: orders
    where:
      - {column: Paid, op: eq, value: "false"}
      - {column: CustomerId, op: is_null}
`))
	require.NoError(t, err)

	entries, err := doc.Build(loadCatalog(t))
	require.NoError(t, err)

	res, err := entries[0].Compile(querysql.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders a0 WHERE (a0.Paid = :p0) AND (a0.CustomerId IS NULL)", res.SQL)
	assert.Equal(t, map[string]any{":p0": false}, res.ParamMap())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("queries: {name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse query document")
}

func TestBuild_RunsOnSQLite(t *testing.T) {
	cat := loadCatalog(t)
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	for _, ddl := range cat.SQLiteDDL() {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}

	doc, err := Load("testdata/queries.yaml")
	require.NoError(t, err)
	entries, err := doc.Build(cat)
	require.NoError(t, err)

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	run := func(name string) {
		res, err := byName[name].Compile(querysql.SQLite)
		require.NoError(t, err)
		_, err = db.Exec(res.SQL, res.NamedArgs()...)
		require.NoError(t, err, res.SQL)
	}
	run("add")
	run("rename")

	res, err := byName["named"].Compile(querysql.SQLite)
	require.NoError(t, err)
	rows, err := db.Query(res.SQL, res.NamedArgs()...)
	require.NoError(t, err)
	defer rows.Close()

	var count int
	for rows.Next() {
		count++
	}
	require.NoError(t, rows.Err())
	assert.Zero(t, count, "no customer is named Al or Bob")
}
