package queryir

import (
	"fmt"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// ColumnDef declares a column of a table.
type ColumnDef struct {
	Name string
	Kind Kind
}

func BoolCol(name string) ColumnDef   { return ColumnDef{Name: name, Kind: KindBool} }
func IntCol(name string) ColumnDef    { return ColumnDef{Name: name, Kind: KindInt} }
func StringCol(name string) ColumnDef { return ColumnDef{Name: name, Kind: KindString} }

// Relation is implemented by table row types. A user row struct embeds
// *Table, or wraps one and forwards Source.
type Relation interface {
	Source() *Table
}

// Table is a table descriptor. Column expressions are created on first
// access and memoized, so every access to the same column of the same table
// yields the identical *Column.
//
// Table is safe for concurrent use.
type Table struct {
	name string

	mu    sync.Mutex
	defs  []ColumnDef
	index map[string]int
	cols  map[string]*Column
}

// NewTable creates a table with the given columns. Names are normalized to
// NFC. Columns not declared here are added on first typed access.
func NewTable(name string, defs ...ColumnDef) *Table {
	t := &Table{
		name:  norm.NFC.String(name),
		index: make(map[string]int, len(defs)),
		cols:  make(map[string]*Column, len(defs)),
	}
	for _, d := range defs {
		d.Name = norm.NFC.String(d.Name)
		if _, dup := t.index[d.Name]; dup {
			panic(fmt.Sprintf("table %s: duplicate column %q", t.name, d.Name))
		}
		t.index[d.Name] = len(t.defs)
		t.defs = append(t.defs, d)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Source makes *Table a Relation.
func (t *Table) Source() *Table { return t }

// Defs returns the declared columns in declaration order.
func (t *Table) Defs() []ColumnDef {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ColumnDef, len(t.defs))
	copy(out, t.defs)
	return out
}

// Columns returns the column expressions in declaration order.
func (t *Table) Columns() []*Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Column, len(t.defs))
	for i, d := range t.defs {
		out[i] = t.columnLocked(d)
	}
	return out
}

// Column returns the column named name, or nil if it was never declared.
func (t *Table) Column(name string) *Column {
	name = norm.NFC.String(name)
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.columnLocked(t.defs[i])
}

// Bool returns the boolean column name, declaring it if needed.
func (t *Table) Bool(name string) Bool { return Bool{t.typed(name, KindBool)} }

// Int returns the integer column name, declaring it if needed.
func (t *Table) Int(name string) Int { return Int{t.typed(name, KindInt)} }

// String returns the string column name, declaring it if needed.
func (t *Table) String(name string) String { return String{t.typed(name, KindString)} }

// typed panics on a kind mismatch; that is a programming error in the row
// type, not a runtime condition.
func (t *Table) typed(name string, kind Kind) *Column {
	name = norm.NFC.String(name)
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[name]
	if !ok {
		t.index[name] = len(t.defs)
		t.defs = append(t.defs, ColumnDef{Name: name, Kind: kind})
		i = len(t.defs) - 1
	}
	d := t.defs[i]
	if d.Kind != kind {
		panic(fmt.Sprintf("column %s.%s is %s, accessed as %s", t.name, name, d.Kind, kind))
	}
	return t.columnLocked(d)
}

func (t *Table) columnLocked(d ColumnDef) *Column {
	if c, ok := t.cols[d.Name]; ok {
		return c
	}
	c := &Column{Table: t, Name: d.Name, K: d.Kind}
	t.cols[d.Name] = c
	return c
}
