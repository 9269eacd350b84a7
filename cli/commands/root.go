// Package commands implements the sqlbuilder CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/config"
	"github.com/satishbabariya/sqlbuilder/cli/internal/version"
	"github.com/satishbabariya/sqlbuilder/internal/debug"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	debug     bool
	jsonLogs  bool
	provider  string
	dsn       string
	prepared  bool
	camelCase bool
}

// NewRootCommand creates the sqlbuilder root command.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:           "sqlbuilder",
		Short:         "Build and run SQL statements",
		Long:          "sqlbuilder renders SQL statements from YAML statement files or flags and runs them against PostgreSQL, MySQL or SQLite.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug.InitWithWriter(cmd.ErrOrStderr(), flags.debug, flags.jsonLogs)

			loaded, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlagOverrides(cmd, loaded, flags)
			*cfg = *loaded
			debug.Debug("loaded config", "provider", cfg.Provider, "prepared", cfg.PreparedStatement, "camel_case", cfg.CamelCase)
			return nil
		},
	}
	cfg = &config.Config{}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.jsonLogs, "log-json", false, "Write logs as JSON")
	pf.StringVar(&flags.provider, "provider", "", "Database provider (postgres, mysql, sqlite)")
	pf.StringVar(&flags.dsn, "database-url", "", "Database connection string")
	pf.BoolVar(&flags.prepared, "prepared", false, "Render ? placeholders instead of literals")
	pf.BoolVar(&flags.camelCase, "camel-case", false, "Alias selected columns to camelCase")

	cmd.AddCommand(NewBuildCommand(cfg))
	cmd.AddCommand(NewExecCommand(cfg))
	cmd.AddCommand(NewAliasCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// applyFlagOverrides lets explicitly set flags win over the loaded config
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *globalFlags) {
	f := cmd.Flags()
	if f.Changed("provider") {
		cfg.Provider = flags.provider
	}
	if f.Changed("database-url") {
		cfg.DatabaseURL = flags.dsn
	}
	if f.Changed("prepared") {
		cfg.PreparedStatement = flags.prepared
	}
	if f.Changed("camel-case") {
		cfg.CamelCase = flags.camelCase
	}
}

// Execute is the main entry point for the CLI
func Execute() error {
	return NewRootCommand().Execute()
}
