package querydoc

import (
	"fmt"

	"github.com/roach88/sqlfuse"
	"github.com/roach88/sqlfuse/internal/queryir"
	"github.com/roach88/sqlfuse/internal/querysql"
	"github.com/roach88/sqlfuse/internal/schema"
)

// Entry is one built query or statement. Exactly one of Query and
// Statement is set.
type Entry struct {
	Name      string
	Query     queryir.Query
	Statement queryir.Statement
}

// Compile compiles the entry for d.
func (e Entry) Compile(d sqlfuse.Dialect) (sqlfuse.Result, error) {
	c := querysql.NewSQLCompiler(d)
	if e.Statement != nil {
		return c.CompileStatement(e.Statement)
	}
	return c.Compile(e.Query)
}

// BuildError reports a document entry that cannot be built.
type BuildError struct {
	Entry   string
	Message string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entry, e.Message)
}

// Build resolves every entry of the document against catalog, queries
// first, in document order.
func (d *Document) Build(catalog *schema.Catalog) ([]Entry, error) {
	entries := make([]Entry, 0, len(d.Queries)+len(d.Statements))
	for _, q := range d.Queries {
		node, err := q.build(catalog)
		if err != nil {
			return nil, &BuildError{Entry: q.Name, Message: err.Error()}
		}
		entries = append(entries, Entry{Name: q.Name, Query: node})
	}
	for _, s := range d.Statements {
		node, err := s.build(catalog)
		if err != nil {
			return nil, &BuildError{Entry: s.Name, Message: err.Error()}
		}
		entries = append(entries, Entry{Name: s.Name, Statement: node})
	}
	return entries, nil
}

func lookupTable(catalog *schema.Catalog, name string) (*queryir.Table, error) {
	if name == "" {
		return nil, fmt.Errorf("no table named")
	}
	t, ok := catalog.Table(name)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}

func lookupColumn(t *queryir.Table, name string) (*queryir.Column, error) {
	col := t.Column(name)
	if col == nil {
		return nil, fmt.Errorf("table %s has no column %q", t.Name(), name)
	}
	return col, nil
}

func (q QuerySpec) build(catalog *schema.Catalog) (queryir.Query, error) {
	t, err := lookupTable(catalog, q.From)
	if err != nil {
		return nil, err
	}
	query := sqlfuse.From(t)

	for _, c := range q.Where {
		pred, err := c.predicate(t)
		if err != nil {
			return nil, err
		}
		query = query.Where(func(*queryir.Table) sqlfuse.Bool { return pred })
	}

	for _, s := range q.OrderBy {
		col, err := lookupColumn(t, s.Column)
		if err != nil {
			return nil, err
		}
		key := func(*queryir.Table) sqlfuse.Typed { return handle(col) }
		if s.Desc {
			query = query.OrderByDesc(key)
		} else {
			query = query.OrderBy(key)
		}
	}

	if q.Count {
		if len(q.Select) > 0 || len(q.OrderBy) > 0 {
			return nil, fmt.Errorf("count excludes select and order_by")
		}
		return sqlfuse.CountOf(query).Node(), nil
	}
	if len(q.Select) == 0 {
		return query.Node(), nil
	}

	cols := make([]any, len(q.Select))
	for i, name := range q.Select {
		col, err := lookupColumn(t, name)
		if err != nil {
			return nil, err
		}
		cols[i] = handle(col)
	}
	return sqlfuse.Select(query, func(*queryir.Table) []any { return cols }).Node(), nil
}

func (s StatementSpec) build(catalog *schema.Catalog) (queryir.Statement, error) {
	switch {
	case s.Insert != "" && s.Update == "" && s.Delete == "":
		t, err := lookupTable(catalog, s.Insert)
		if err != nil {
			return nil, err
		}
		if len(s.Where) > 0 || len(s.Set) > 0 {
			return nil, fmt.Errorf("insert takes values only")
		}
		stmt := sqlfuse.InsertInto(t)
		for _, a := range s.Values {
			assign, err := a.assignment(t)
			if err != nil {
				return nil, err
			}
			stmt = stmt.Value(assign)
		}
		return stmt.Node(), nil

	case s.Update != "" && s.Insert == "" && s.Delete == "":
		t, err := lookupTable(catalog, s.Update)
		if err != nil {
			return nil, err
		}
		if len(s.Values) > 0 {
			return nil, fmt.Errorf("update takes set, not values")
		}
		stmt := sqlfuse.Update(t)
		for _, a := range s.Set {
			assign, err := a.assignment(t)
			if err != nil {
				return nil, err
			}
			stmt = stmt.Set(assign)
		}
		for _, c := range s.Where {
			pred, err := c.predicate(t)
			if err != nil {
				return nil, err
			}
			stmt = stmt.Where(func(*queryir.Table) sqlfuse.Bool { return pred })
		}
		return stmt.Node(), nil

	case s.Delete != "" && s.Insert == "" && s.Update == "":
		t, err := lookupTable(catalog, s.Delete)
		if err != nil {
			return nil, err
		}
		if len(s.Values) > 0 || len(s.Set) > 0 {
			return nil, fmt.Errorf("delete takes where only")
		}
		stmt := sqlfuse.DeleteFrom(t)
		for _, c := range s.Where {
			pred, err := c.predicate(t)
			if err != nil {
				return nil, err
			}
			stmt = stmt.Where(func(*queryir.Table) sqlfuse.Bool { return pred })
		}
		return stmt.Node(), nil

	default:
		return nil, fmt.Errorf("statement must set exactly one of insert, update, delete")
	}
}

// handle wraps a column in the typed handle matching its kind.
func handle(col *queryir.Column) sqlfuse.Typed {
	switch col.Kind() {
	case queryir.KindInt:
		return queryir.WrapInt(col)
	case queryir.KindBool:
		return queryir.WrapBool(col)
	default:
		return queryir.WrapString(col)
	}
}
