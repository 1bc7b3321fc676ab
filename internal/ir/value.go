package ir

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// IRValue is a sealed interface representing constrained value types.
// Only IRNull, IRString, IRInt, IRBool, IRArray, and IRObject implement this.
// NO IRFloat - floats are forbidden (they break deterministic fingerprints).
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents SQL NULL.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRArray represents an ordered list of values.
// Arrays are only used for canonical encoding, never as parameters.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to values.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings compares UTF-8 bytes, which orders supplementary-plane
// characters differently.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// FromNative converts a Go scalar to an IRValue.
// Accepts the integer family, string, bool and nil.
func FromNative(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case string:
		return IRString(val), nil
	case bool:
		return IRBool(val), nil
	case int:
		return IRInt(val), nil
	case int8:
		return IRInt(val), nil
	case int16:
		return IRInt(val), nil
	case int32:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case uint8:
		return IRInt(val), nil
	case uint16:
		return IRInt(val), nil
	case uint32:
		return IRInt(val), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are not supported as literal values: %v", val)
	default:
		return nil, fmt.Errorf("unsupported literal type: %T", v)
	}
}

// ToParam converts an IRValue to the Go native type bound as an SQL parameter.
// Arrays and objects cannot be bound.
func ToParam(v IRValue) (any, error) {
	switch val := v.(type) {
	case IRString:
		return string(val), nil
	case IRInt:
		return int64(val), nil
	case IRBool:
		return bool(val), nil
	case IRNull:
		return nil, nil
	case IRArray:
		return nil, fmt.Errorf("IRArray cannot be used as SQL parameter directly")
	case IRObject:
		return nil, fmt.Errorf("IRObject cannot be used as SQL parameter directly")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}

// Equal reports whether two scalar values are equal.
// Arrays and objects are never equal.
func Equal(a, b IRValue) bool {
	switch av := a.(type) {
	case IRNull:
		_, ok := b.(IRNull)
		return ok
	case IRString:
		bv, ok := b.(IRString)
		return ok && av == bv
	case IRInt:
		bv, ok := b.(IRInt)
		return ok && av == bv
	case IRBool:
		bv, ok := b.(IRBool)
		return ok && av == bv
	default:
		return false
	}
}
