package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Exit codes shared by every command.
const (
	ExitSuccess      = 0 // everything compiled or passed
	ExitFailure      = 1 // entries invalid or scenarios failed
	ExitCommandError = 2 // bad input: paths, catalog, config, compile errors
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope of every JSON response.
type CLIResponse struct {
	Status  string    `json:"status"` // "ok" or "error"
	Data    any       `json:"data,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// CLIError describes a failure in a JSON response.
type CLIError struct {
	Code    string `json:"code"` // "E010", "PARAMETER_CONFLICT", ...
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; Writer when nil
	Verbose   bool
}

// newTraceID returns a time-ordered UUIDv7.
func newTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// writeResponse encodes resp to w with a fresh trace ID unless one is set.
func writeResponse(w io.Writer, resp CLIResponse, indent bool) error {
	if resp.TraceID == "" {
		resp.TraceID = newTraceID()
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

// Success writes data as an "ok" response, or prints it in text mode.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return writeResponse(f.Writer, CLIResponse{Status: "ok", Data: data}, false)
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes a single failure.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return writeResponse(f.Writer, CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		}, false)
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Failure writes an indented JSON "error" response whose data lists every
// failure and whose error field summarizes them.
func (f *OutputFormatter) Failure(summary CLIError, data any) error {
	return writeResponse(f.Writer, CLIResponse{Status: "error", Error: &summary, Data: data}, true)
}

// VerboseLog prints a line in verbose mode only. JSON output stays clean
// when ErrWriter is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
