package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlfuse/internal/querydoc"
	"github.com/roach88/sqlfuse/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledParam is one bound parameter in command output.
type CompiledParam struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// CompiledEntry is one compiled query or statement.
type CompiledEntry struct {
	Name        string          `json:"name"`
	Kind        string          `json:"kind"` // "query" | "statement"
	SQL         string          `json:"sql"`
	Params      []CompiledParam `json:"params"`
	Fingerprint string          `json:"fingerprint"`
}

// CompilationResult holds every compiled entry of a document.
type CompilationResult struct {
	Dialect string          `json:"dialect"`
	Entries []CompiledEntry `json:"entries"`
}

// EntryError is a compile failure of one entry.
type EntryError struct {
	Entry   string `json:"entry"`
	Dialect string `json:"dialect,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <queries.yaml>",
		Short: "Compile a query document to SQL",
		Long: `Compile every query and statement of a query document to
parameterized SQL for one dialect.

Exit codes:
  0 - Every entry compiled
  2 - Command error (missing catalog, malformed document, compile errors)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, docPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadInputs(opts.Catalog, docPath)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Loaded %d table(s) and %d entr(ies)", len(loaded.Catalog.Tables()), len(loaded.Entries))

	dialect := opts.dialect()
	result := &CompilationResult{Dialect: dialect.Name, Entries: make([]CompiledEntry, 0, len(loaded.Entries))}
	var errs []EntryError
	for _, e := range loaded.Entries {
		formatter.VerboseLog("Compiling %s", e.Name)
		compiled, err := compileEntry(e, dialect)
		if err != nil {
			errs = append(errs, entryError(e.Name, "", err))
			continue
		}
		result.Entries = append(result.Entries, compiled)
	}

	if len(errs) > 0 {
		return outputEntryErrors(formatter, "Compilation failed", errs, ExitCommandError)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func compileEntry(e querydoc.Entry, d querysql.Dialect) (CompiledEntry, error) {
	res, err := e.Compile(d)
	if err != nil {
		return CompiledEntry{}, err
	}
	fingerprint, err := res.Fingerprint()
	if err != nil {
		return CompiledEntry{}, err
	}

	kind := "query"
	if e.Statement != nil {
		kind = "statement"
	}
	params := make([]CompiledParam, len(res.Params))
	for i, p := range res.Params {
		params[i] = CompiledParam{Name: p.Placeholder, Value: p.Value}
	}
	return CompiledEntry{Name: e.Name, Kind: kind, SQL: res.SQL, Params: params, Fingerprint: fingerprint}, nil
}

// entryError converts a compile failure to its reported form.
func entryError(entry, dialect string, err error) EntryError {
	var cerr *querysql.CompileError
	if errors.As(err, &cerr) {
		return EntryError{Entry: entry, Dialect: dialect, Code: string(cerr.Code), Message: cerr.Error()}
	}
	return EntryError{Entry: entry, Dialect: dialect, Code: "E001", Message: err.Error()}
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d entr(ies) for %s\n\n", len(result.Entries), result.Dialect)
	for _, e := range result.Entries {
		fmt.Fprintf(w, "%s:\n  %s\n", e.Name, e.SQL)
		for _, p := range e.Params {
			fmt.Fprintf(w, "  %s = %v\n", p.Name, p.Value)
		}
		fmt.Fprintln(w)
	}

	if outputFile != "" {
		fmt.Fprintf(w, "Wrote compiled SQL to %s\n", outputFile)
	}
	return nil
}

// outputEntryErrors reports per-entry failures and returns an exit error
// with the given code.
func outputEntryErrors(formatter *OutputFormatter, title string, errs []EntryError, exitCode int) error {
	summary := fmt.Sprintf("%s with %d error(s)", title, len(errs))

	if formatter.Format == "json" {
		if err := formatter.Failure(CLIError{Code: errs[0].Code, Message: errs[0].Message}, errs); err != nil {
			return err
		}
		return NewExitError(exitCode, summary)
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n\n", title)
	for _, e := range errs {
		if e.Dialect != "" {
			fmt.Fprintf(formatter.Writer, "%s (%s)\n", e.Entry, e.Dialect)
		} else {
			fmt.Fprintln(formatter.Writer, e.Entry)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}
	return NewExitError(exitCode, summary)
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
