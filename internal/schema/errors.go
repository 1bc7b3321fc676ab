package schema

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error code constants for catalog loading.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanError      = "E002" // Directory scan error
	ErrCodeNoFiles        = "E003" // No catalog files found
	ErrCodeLoadFailed     = "E004" // CUE or YAML load failed
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeBuildFailed    = "E006" // CUE build failed
	ErrCodeInvalidType    = "E104" // Unknown column type
	ErrCodeEmptyTable     = "E120" // Table without columns
	ErrCodeDuplicateTable = "E121" // Table declared twice
)

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
