package queryir

import (
	"fmt"
	"reflect"
)

// UnsupportedLeafError reports a projected value that is neither an
// expression nor a composite of expressions.
type UnsupportedLeafError struct {
	Type string
}

func (e *UnsupportedLeafError) Error() string {
	return fmt.Sprintf("unsupported projection leaf of type %s", e.Type)
}

// Flatten returns the expression leaves of a projected value in
// depth-first, left-to-right order. Nil values and zero handles are dropped.
//
//   - Typed handles and Expr values are leaves.
//   - A Relation contributes all of its table's columns.
//   - A Grouped row contributes the leaves of its key.
//   - Structs contribute their exported fields in declaration order.
//   - Slices and arrays contribute their elements.
//
// Maps are rejected: their iteration order would make the output unstable.
func Flatten(shape any) ([]Expr, error) {
	var out []Expr
	if err := flatten(reflect.ValueOf(shape), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(v reflect.Value, out *[]Expr) error {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}

	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case Typed:
			if e := x.Expr(); e != nil {
				*out = append(*out, e)
			}
			return nil
		case Relation:
			for _, c := range x.Source().Columns() {
				*out = append(*out, c)
			}
			return nil
		case Grouped:
			return flatten(reflect.ValueOf(x.GroupKey()), out)
		case Expr:
			*out = append(*out, x)
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return flatten(v.Elem(), out)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := flatten(v.Field(i), out); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := flatten(v.Index(i), out); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnsupportedLeafError{Type: v.Type().String()}
	}
}

// SameRow reports whether a projection returned its input row unchanged.
// Rows that cannot be compared are never the same.
func SameRow(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
