package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const maxWalkDepth = 25

// Config is the sqlfuse.yaml configuration.
type Config struct {
	Dialect   string `mapstructure:"dialect" yaml:"dialect" json:"dialect"`
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	Catalog   string `mapstructure:"catalog" yaml:"catalog" json:"catalog"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
}

// LoadConfig loads configuration with precedence env > config file >
// defaults. Flags are layered on top by the root command.
//
// It returns the config and the path of the file it read, empty if none.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SQLFUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "sqlserver")
	v.SetDefault("format", "text")
	v.SetDefault("catalog", "")
	v.SetDefault("verbose", false)
	v.SetDefault("log_format", "text")
}

// findConfigFile returns explicitPath if it exists. Otherwise it walks up
// from the working directory looking for sqlfuse.yaml or sqlfuse.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"sqlfuse.yaml", "sqlfuse.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration after merging defaults, the config
file, SQLFUSE_* environment variables and flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			effective := rootOpts.effective()
			if rootOpts.Format == "json" {
				return (&OutputFormatter{Format: "json", Writer: w}).Success(map[string]any{
					"config":      effective,
					"config_file": rootOpts.ConfigPath,
				})
			}

			if rootOpts.ConfigPath != "" {
				fmt.Fprintf(w, "Config file: %s\n\n", rootOpts.ConfigPath)
			} else {
				fmt.Fprintln(w, "Config file: (none, using defaults)")
				fmt.Fprintln(w)
			}
			out, err := yaml.Marshal(effective)
			if err != nil {
				return err
			}
			fmt.Fprint(w, string(out))
			return nil
		},
	}
	return cmd
}
