package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlfuse/internal/querysql"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Dialect string
	Catalog string
	Config  string

	// LogFormat selects the slog handler, "text" or "json".
	LogFormat string

	// ConfigPath is the config file that was read, empty if none.
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlfuse CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlfuse",
		Short: "sqlfuse - typed queries compiled to SQL",
		Long: `Compile declarative query documents to parameterized SQL for
SQL Server and SQLite, and run conformance scenarios against the compiler.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose, opts.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Dialect, "dialect", "sqlserver", "SQL dialect (sqlserver|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "catalog file or CUE directory")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default: auto-discover sqlfuse.yaml)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// applyConfig loads the configuration and fills every flag the user did
// not set explicitly, then validates the result.
func (o *RootOptions) applyConfig(cmd *cobra.Command) error {
	cfg, path, err := LoadConfig(o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}
	o.ConfigPath = path

	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("dialect") {
		o.Dialect = cfg.Dialect
	}
	if !flags.Changed("catalog") {
		o.Catalog = cfg.Catalog
	}
	if !flags.Changed("verbose") {
		o.Verbose = cfg.Verbose
	}
	o.LogFormat = cfg.LogFormat

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if _, ok := querysql.LookupDialect(o.Dialect); !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown dialect %q: must be one of %v", o.Dialect, querysql.DialectNames()))
	}
	return nil
}

// effective returns the options as a Config, for display.
func (o *RootOptions) effective() Config {
	return Config{
		Dialect:   o.Dialect,
		Format:    o.Format,
		Catalog:   o.Catalog,
		Verbose:   o.Verbose,
		LogFormat: o.LogFormat,
	}
}

// dialect returns the selected dialect. Options are validated before any
// command runs.
func (o *RootOptions) dialect() querysql.Dialect {
	d, ok := querysql.LookupDialect(o.Dialect)
	if !ok {
		return querysql.SQLServer
	}
	return d
}

// setupLogging installs the default slog handler on w. Verbose lowers the
// level to Debug.
func setupLogging(w io.Writer, verbose bool, format string) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(w, hopts)
	if format == "json" {
		h = slog.NewJSONHandler(w, hopts)
	}
	slog.SetDefault(slog.New(h))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
