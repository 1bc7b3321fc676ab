package querydoc

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/roach88/sqlfuse"
	"github.com/roach88/sqlfuse/internal/queryir"
)

// value coerces a document value to an operand of the given kind. A nil
// value is NULL.
func value(kind queryir.Kind, v any, param string) (sqlfuse.Typed, error) {
	if v == nil {
		if param != "" {
			return nil, fmt.Errorf("parameter %q needs a value", param)
		}
		switch kind {
		case queryir.KindInt:
			return queryir.NullInt(), nil
		case queryir.KindBool:
			return queryir.NullBool(), nil
		default:
			return queryir.NullString(), nil
		}
	}

	switch kind {
	case queryir.KindInt:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, fmt.Errorf("value %v is not an integer", v)
		}
		if param != "" {
			return queryir.IntParam(param, n), nil
		}
		return queryir.IntLit(n), nil
	case queryir.KindBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("value %v is not a boolean", v)
		}
		if param != "" {
			return queryir.BoolParam(param, b), nil
		}
		return queryir.BoolLit(b), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("value %v is not a string", v)
		}
		if param != "" {
			return queryir.StringParam(param, s), nil
		}
		return queryir.StringLit(s), nil
	}
}

func (a AssignSpec) assignment(t *queryir.Table) (sqlfuse.Assignment, error) {
	col, err := lookupColumn(t, a.Column)
	if err != nil {
		return sqlfuse.Assignment{}, err
	}
	v, err := value(col.Kind(), a.Value, a.Param)
	if err != nil {
		return sqlfuse.Assignment{}, fmt.Errorf("column %s: %w", a.Column, err)
	}
	switch target := handle(col).(type) {
	case queryir.Int:
		return sqlfuse.Assign(target, v.(queryir.Int)), nil
	case queryir.Bool:
		return sqlfuse.Assign(target, v.(queryir.Bool)), nil
	default:
		return sqlfuse.Assign(target.(queryir.String), v.(queryir.String)), nil
	}
}

// predicate builds the filter a condition describes.
func (c Condition) predicate(t *queryir.Table) (queryir.Bool, error) {
	col, err := lookupColumn(t, c.Column)
	if err != nil {
		return queryir.Bool{}, err
	}

	switch c.Op {
	case "is_null", "not_null":
		notNull := c.Op == "not_null"
		switch h := handle(col).(type) {
		case queryir.Int:
			if notNull {
				return h.NotNull(), nil
			}
			return h.IsNull(), nil
		case queryir.String:
			if notNull {
				return h.NotNull(), nil
			}
			return h.IsNull(), nil
		default:
			b := h.(queryir.Bool)
			if notNull {
				return b.Ne(queryir.NullBool()), nil
			}
			return b.Eq(queryir.NullBool()), nil
		}
	case "in":
		return c.inList(col)
	}

	rhs, err := value(col.Kind(), c.Value, c.Param)
	if err != nil {
		return queryir.Bool{}, fmt.Errorf("column %s: %w", c.Column, err)
	}

	switch lhs := handle(col).(type) {
	case queryir.Int:
		return compareInt(lhs, c.Op, rhs.(queryir.Int))
	case queryir.String:
		if c.Op == "like" {
			pattern, err := cast.ToStringE(c.Value)
			if err != nil {
				return queryir.Bool{}, fmt.Errorf("column %s: pattern %v is not a string", c.Column, c.Value)
			}
			return lhs.Like(pattern), nil
		}
		return compareString(lhs, c.Op, rhs.(queryir.String))
	default:
		b := lhs.(queryir.Bool)
		switch c.Op {
		case "eq":
			return b.Eq(rhs.(queryir.Bool)), nil
		case "ne":
			return b.Ne(rhs.(queryir.Bool)), nil
		}
	}
	return queryir.Bool{}, fmt.Errorf("operator %q not supported on %s column %s", c.Op, col.Kind(), c.Column)
}

func compareInt(lhs queryir.Int, op string, rhs queryir.Int) (queryir.Bool, error) {
	switch op {
	case "eq":
		return lhs.Eq(rhs), nil
	case "ne":
		return lhs.Ne(rhs), nil
	case "gt":
		return lhs.Gt(rhs), nil
	case "lt":
		return lhs.Lt(rhs), nil
	case "ge":
		return lhs.Ge(rhs), nil
	case "le":
		return lhs.Le(rhs), nil
	}
	return queryir.Bool{}, fmt.Errorf("operator %q not supported on int columns", op)
}

func compareString(lhs queryir.String, op string, rhs queryir.String) (queryir.Bool, error) {
	switch op {
	case "eq":
		return lhs.Eq(rhs), nil
	case "ne":
		return lhs.Ne(rhs), nil
	case "gt":
		return lhs.Gt(rhs), nil
	case "lt":
		return lhs.Lt(rhs), nil
	case "ge":
		return lhs.Ge(rhs), nil
	case "le":
		return lhs.Le(rhs), nil
	}
	return queryir.Bool{}, fmt.Errorf("operator %q not supported on string columns", op)
}

func (c Condition) inList(col *queryir.Column) (queryir.Bool, error) {
	switch col.Kind() {
	case queryir.KindInt:
		vals := make([]int64, len(c.Values))
		for i, v := range c.Values {
			n, err := cast.ToInt64E(v)
			if err != nil {
				return queryir.Bool{}, fmt.Errorf("column %s: value %v is not an integer", c.Column, v)
			}
			vals[i] = n
		}
		return queryir.WrapInt(col).In(vals...), nil
	case queryir.KindString:
		vals, err := cast.ToStringSliceE(c.Values)
		if err != nil {
			return queryir.Bool{}, fmt.Errorf("column %s: %w", c.Column, err)
		}
		return queryir.WrapString(col).In(vals...), nil
	default:
		return queryir.Bool{}, fmt.Errorf("operator \"in\" not supported on %s column %s", col.Kind(), c.Column)
	}
}
