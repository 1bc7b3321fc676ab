package querysql

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/roach88/sqlfuse/internal/ir"
	"github.com/roach88/sqlfuse/internal/queryir"
)

// fieldRef locates a value exposed by an aliased source: aN.field.
type fieldRef struct {
	alias int
	field string
}

func (r fieldRef) String() string {
	return fmt.Sprintf("a%d.%s", r.alias, r.field)
}

// Context is the immutable state threaded through compilation. Every
// with* method returns a new Context and leaves the receiver untouched.
type Context struct {
	dialect Dialect

	// projections maps an expression exposed by a subquery to the alias
	// and field that carry it. Keys compare by pointer identity.
	projections map[queryir.Expr]fieldRef

	// tables maps each aliased table to its alias index.
	tables map[*queryir.Table]int

	// scope maps the tables visible to the select being compiled to the
	// qualifier their columns use.
	scope map[*queryir.Table]string

	nextAlias int
	nextParam int
	params    []Param
	named     map[string]ir.IRValue

	// literals remembers the placeholder bound for each literal node, so
	// an expression compiled twice (a group key in SELECT and GROUP BY)
	// renders identically.
	literals map[*queryir.Literal]string
}

// NewContext returns an empty context for d.
func NewContext(d Dialect) Context {
	return Context{dialect: d}
}

func (c Context) Dialect() Dialect { return c.dialect }

// Params returns the bound parameters in binding order.
func (c Context) Params() []Param {
	return slices.Clone(c.params)
}

func (c Context) projection(e queryir.Expr) (fieldRef, bool) {
	ref, ok := c.projections[e]
	return ref, ok
}

func (c Context) withProjection(e queryir.Expr, ref fieldRef) Context {
	c.projections = maps.Clone(c.projections)
	if c.projections == nil {
		c.projections = make(map[queryir.Expr]fieldRef)
	}
	c.projections[e] = ref
	return c
}

// withRepointed moves the registrations of exprs to alias, keeping fields.
func (c Context) withRepointed(exprs []queryir.Expr, alias int) Context {
	c.projections = maps.Clone(c.projections)
	for _, e := range exprs {
		if ref, ok := c.projections[e]; ok {
			c.projections[e] = fieldRef{alias: alias, field: ref.field}
		}
	}
	return c
}

func (c Context) tableAlias(t *queryir.Table) (int, bool) {
	i, ok := c.tables[t]
	return i, ok
}

// withTable returns the alias of t, assigning the next one on first use.
func (c Context) withTable(t *queryir.Table) (Context, int) {
	if i, ok := c.tables[t]; ok {
		return c, i
	}
	c.tables = maps.Clone(c.tables)
	if c.tables == nil {
		c.tables = make(map[*queryir.Table]int)
	}
	i := c.nextAlias
	c.tables[t] = i
	c.nextAlias++
	return c, i
}

// withAlias reserves an alias not tied to a table.
func (c Context) withAlias() (Context, int) {
	i := c.nextAlias
	c.nextAlias++
	return c, i
}

// withScope makes t visible under qualifier. Projections of t's columns
// registered by an enclosing derived table are hidden until the scope is
// restored, so the columns resolve against this occurrence of t.
func (c Context) withScope(t *queryir.Table, qualifier string) Context {
	c.scope = maps.Clone(c.scope)
	if c.scope == nil {
		c.scope = make(map[*queryir.Table]string)
	}
	c.scope[t] = qualifier
	return c.withoutColumnsOf(t)
}

func (c Context) withoutColumnsOf(t *queryir.Table) Context {
	var shadowed []queryir.Expr
	for e := range c.projections {
		if col, ok := e.(*queryir.Column); ok && col.Table == t {
			shadowed = append(shadowed, e)
		}
	}
	if len(shadowed) == 0 {
		return c
	}
	c.projections = maps.Clone(c.projections)
	for _, e := range shadowed {
		delete(c.projections, e)
	}
	return c
}

// withVisibility restores the scope and projections of saved, keeping
// everything else. Used when leaving a nested query.
func (c Context) withVisibility(saved Context) Context {
	c.scope = saved.scope
	c.projections = saved.projections
	return c
}

func (c Context) withScopeOf(saved Context) Context {
	c.scope = saved.scope
	return c
}

func (c Context) qualifier(t *queryir.Table) (string, bool) {
	q, ok := c.scope[t]
	return q, ok
}

// withParam binds a generated parameter and returns its placeholder.
func (c Context) withParam(value any) (Context, string) {
	name := fmt.Sprintf("p%d", c.nextParam)
	c.nextParam++
	return c.bind(name, value)
}

// withLiteral binds a literal node once and reuses its placeholder after.
func (c Context) withLiteral(node *queryir.Literal, value any) (Context, string) {
	if placeholder, ok := c.literals[node]; ok {
		return c, placeholder
	}
	c, placeholder := c.withParam(value)
	c.literals = maps.Clone(c.literals)
	if c.literals == nil {
		c.literals = make(map[*queryir.Literal]string)
	}
	c.literals[node] = placeholder
	return c, placeholder
}

var generatedParamName = regexp.MustCompile(`^p[0-9]+$`)

// withNamedParam binds a user-named parameter. Rebinding a name is allowed
// only with an equal value, in which case the existing placeholder is reused.
func (c Context) withNamedParam(node *queryir.Param) (Context, string, error) {
	if node.Name == "" || generatedParamName.MatchString(node.Name) {
		return c, "", newError(ErrCodeParameterConflict, node, "parameter name %q is reserved", node.Name)
	}
	if prev, ok := c.named[node.Name]; ok {
		if !ir.Equal(prev, node.Value) {
			return c, "", newError(ErrCodeParameterConflict, node, "parameter %q bound to two different values", node.Name)
		}
		return c, c.dialect.Placeholder(node.Name), nil
	}
	value, err := ir.ToParam(node.Value)
	if err != nil {
		return c, "", &CompileError{Code: ErrCodeUnsupportedExpression, Node: "Param", Message: err.Error(), Err: err}
	}
	c.named = maps.Clone(c.named)
	if c.named == nil {
		c.named = make(map[string]ir.IRValue)
	}
	c.named[node.Name] = node.Value
	c, placeholder := c.bind(node.Name, value)
	return c, placeholder, nil
}

func (c Context) bind(name string, value any) (Context, string) {
	placeholder := c.dialect.Placeholder(name)
	c.params = append(slices.Clip(c.params), Param{Name: name, Placeholder: placeholder, Value: value})
	return c, placeholder
}
