package commands

import (
	"fmt"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/config"
	"github.com/satishbabariya/sqlbuilder/cli/internal/ui"
	"github.com/satishbabariya/sqlbuilder/query/executor"
)

const exampleStatements = `# Statements rendered by "sqlbuilder build" and run by "sqlbuilder exec".
name: adults
table: users
columns: [id, first_name, last_name]
filters:
  - age >= 18
order_by: last_name
order: asc
limit: 10
---
name: add_user
kind: insert
table: users
values:
  first_name: Ada
  last_name: Lovelace
  age: 36
`

// initAnswers are the answers of the init prompts
type initAnswers struct {
	Provider       string `survey:"provider"`
	DatabaseURL    string `survey:"database_url"`
	Prepared       bool   `survey:"prepared"`
	CamelCase      bool   `survey:"camel_case"`
	StatementsPath string `survey:"statements_path"`
}

var initQuestions = []*survey.Question{
	{
		Name: "provider",
		Prompt: &survey.Select{
			Message: "Database provider:",
			Options: []string{"postgres", "mysql", "sqlite"},
			Default: "sqlite",
		},
	},
	{
		Name: "database_url",
		Prompt: &survey.Input{
			Message: "Database URL (leave empty to use DATABASE_URL):",
		},
	},
	{
		Name: "prepared",
		Prompt: &survey.Confirm{
			Message: "Render prepared statements with ? placeholders?",
			Default: true,
		},
	},
	{
		Name: "camel_case",
		Prompt: &survey.Confirm{
			Message: "Alias selected columns to camelCase?",
			Default: false,
		},
	},
	{
		Name: "statements_path",
		Prompt: &survey.Input{
			Message: "Statement file:",
			Default: "statements.yaml",
		},
		Validate: survey.Required,
	},
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var (
		yes    bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file and an example statement file",
		Long: `Write .sqlbuilder.yaml and, when missing, an example statement file.

Examples:
  sqlbuilder init
  sqlbuilder init --yes --global`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := initAnswers{
				Provider:       "sqlite",
				Prepared:       true,
				StatementsPath: "statements.yaml",
			}
			ui.PrintHeader(cmd.OutOrStdout(), "sqlbuilder init", "Create a config file and an example statement file")
			if !yes {
				if err := survey.Ask(initQuestions, &answers); err != nil {
					return err
				}
			}
			if _, err := executor.DriverName(answers.Provider); err != nil {
				return err
			}

			cfg := &config.Config{
				Provider:          answers.Provider,
				DatabaseURL:       answers.DatabaseURL,
				PreparedStatement: answers.Prepared,
				CamelCase:         answers.CamelCase,
				SlowThreshold:     executor.DefaultSlowThreshold,
				CacheSize:         64,
				StatementsPath:    answers.StatementsPath,
			}
			path, err := config.SaveConfig(cfg, global)
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			created, err := writeExampleStatements(answers.StatementsPath)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", answers.StatementsPath)
			} else {
				ui.PrintWarning("%s already exists, skipping", answers.StatementsPath)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Next: sqlbuilder build %s\n", answers.StatementsPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept the defaults without prompting")
	cmd.Flags().BoolVar(&global, "global", false, "Write the config to ~/.config/sqlbuilder")

	return cmd
}

// writeExampleStatements creates path with example statements unless it
// already exists
func writeExampleStatements(path string) (bool, error) {
	path, err := resolvePath(path)
	if err != nil {
		return false, err
	}
	exists, err := afero.Exists(config.AppFs, path)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := config.AppFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := afero.WriteFile(config.AppFs, path, []byte(exampleStatements), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
