package querysql

import (
	"errors"
	"fmt"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// ErrorCode classifies compile errors.
type ErrorCode string

// Usage errors: the input tree cannot be expressed in SQL.
const (
	ErrCodeUnsupportedExpression ErrorCode = "UNSUPPORTED_EXPRESSION"
	ErrCodeUnsupportedQueryShape ErrorCode = "UNSUPPORTED_QUERY_SHAPE"
	ErrCodeUnsupportedStatement  ErrorCode = "UNSUPPORTED_STATEMENT"
	ErrCodeUnsupportedProjection ErrorCode = "UNSUPPORTED_PROJECTION"
	ErrCodeEmptyInsert           ErrorCode = "EMPTY_INSERT"
	ErrCodeEmptyUpdate           ErrorCode = "EMPTY_UPDATE"
	ErrCodeNotAColumn            ErrorCode = "NOT_A_COLUMN"
	ErrCodeParameterConflict     ErrorCode = "PARAMETER_CONFLICT"
	ErrCodeInvalidTree           ErrorCode = "INVALID_TREE"
)

// Invariant errors: a compiler bug, not bad input.
const (
	ErrCodeUnregisteredAlias ErrorCode = "UNREGISTERED_ALIAS"
)

// CompileError is returned for every compilation failure. Node carries the
// runtime type name of the offending node.
type CompileError struct {
	Code    ErrorCode
	Node    string
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node %s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, node any, format string, args ...any) *CompileError {
	e := &CompileError{Code: code, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		e.Node = queryir.NodeName(node)
	}
	return e
}

// HasCode reports whether err is a CompileError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Code == code
}

// IsUsageError reports whether err describes an unsupported input.
func IsUsageError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Code != ErrCodeUnregisteredAlias
}

// IsInvariantError reports whether err indicates a compiler defect.
func IsInvariantError(err error) bool {
	return HasCode(err, ErrCodeUnregisteredAlias)
}
