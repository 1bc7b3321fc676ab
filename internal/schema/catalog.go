package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// Catalog is an ordered set of tables, looked up by name.
type Catalog struct {
	tables []*queryir.Table
	byName map[string]*queryir.Table
}

// NewCatalog builds a catalog. Table names must be unique.
func NewCatalog(tables ...*queryir.Table) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*queryir.Table, len(tables))}
	for _, t := range tables {
		if err := c.add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(t *queryir.Table) error {
	if _, dup := c.byName[t.Name()]; dup {
		return &LoadError{Code: ErrCodeDuplicateTable, Message: fmt.Sprintf("duplicate table %q", t.Name())}
	}
	c.tables = append(c.tables, t)
	c.byName[t.Name()] = t
	return nil
}

// Table returns the table named name.
func (c *Catalog) Table(name string) (*queryir.Table, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Tables returns the tables in declaration order.
func (c *Catalog) Tables() []*queryir.Table {
	out := make([]*queryir.Table, len(c.tables))
	copy(out, c.tables)
	return out
}

var sqliteTypes = map[queryir.Kind]string{
	queryir.KindBool:   "INTEGER",
	queryir.KindInt:    "INTEGER",
	queryir.KindString: "TEXT",
}

// SQLiteDDL returns one CREATE TABLE statement per table.
func (c *Catalog) SQLiteDDL() []string {
	stmts := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		defs := t.Defs()
		cols := make([]string, len(defs))
		for i, d := range defs {
			cols[i] = d.Name + " " + sqliteTypes[d.Kind]
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (%s)", t.Name(), strings.Join(cols, ", ")))
	}
	return stmts
}
