package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlfuse/internal/querysql"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool         `json:"valid"`
	Entries int          `json:"entries"`
	Errors  []EntryError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <queries.yaml>",
		Short: "Check that a query document compiles in every dialect",
		Long: `Check that every entry of a query document resolves against the
catalog and compiles in every registered dialect, without writing SQL.

Exit codes:
  0 - Every entry compiles
  1 - One or more entries fail to compile
  2 - Command error (missing catalog, malformed document)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, docPath string, cmd *cobra.Command) error {
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

	result := ValidationResult{Entries: len(loaded.Entries)}
	for _, e := range loaded.Entries {
		for _, name := range querysql.DialectNames() {
			d, _ := querysql.LookupDialect(name)
			formatter.VerboseLog("Checking %s (%s)", e.Name, d.Name)
			if _, err := e.Compile(d); err != nil {
				result.Errors = append(result.Errors, entryError(e.Name, d.Name, err))
			}
		}
	}
	result.Valid = len(result.Errors) == 0

	if !result.Valid {
		return outputEntryErrors(formatter, "Validation failed", result.Errors, ExitFailure)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d entr(ies) valid in %v\n", result.Entries, querysql.DialectNames())
	return nil
}
