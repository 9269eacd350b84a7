package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/config"
	"github.com/satishbabariya/sqlbuilder/cli/internal/ui"
	"github.com/satishbabariya/sqlbuilder/query/executor"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// openExecutor opens the database connection; tests replace it
var openExecutor = executor.Open

// NewExecCommand creates the exec command.
func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		src   sourceFlags
		useTx bool
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "exec [statements.yaml]",
		Short: "Render statements and run them against the database",
		Long: `Render the statements of a YAML statement file, or a SELECT described by flags,
and run them against the configured database. SELECT results are printed as a table.

Examples:
  sqlbuilder exec queries/users.yaml --tx
  sqlbuilder exec --table users --where "age > 30" --provider postgres --database-url postgres://localhost/app`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("no database url: set database_url in %s.yaml, DATABASE_URL or --database-url", config.FileName)
			}

			stmts, err := loadStatements(statementPath(args, cfg, &src), &src)
			if err != nil {
				return err
			}
			defaults, overrides := renderOptions(cmd, cfg)
			queries, err := renderAll(stmts, defaults, overrides)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var spinner *pterm.SpinnerPrinter
			if out == os.Stdout {
				spinner, _ = ui.PrintSpinner(fmt.Sprintf("Connecting to %s...", cfg.Provider))
			}
			exec, err := openExecutor(ctx, cfg.Provider, cfg.DatabaseURL,
				executor.WithSlowThreshold(cfg.SlowThreshold),
				executor.WithStatementCache(cfg.CacheSize),
			)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}
			defer exec.Close()

			if useTx {
				err = exec.Transaction(ctx, nil, func(tx *executor.Tx) error {
					return runQueries(out, queries, func(q *sqlgen.Query) (*executor.Result, error) {
						return tx.Run(ctx, q)
					})
				})
			} else {
				err = runQueries(out, queries, func(q *sqlgen.Query) (*executor.Result, error) {
					return exec.Run(ctx, q)
				})
			}
			if err != nil {
				return err
			}

			if stats {
				fmt.Fprintln(out, exec.Stats().String())
			}
			return nil
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().BoolVar(&useTx, "tx", false, "Run all statements in one transaction")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print execution statistics")

	return cmd
}

func runQueries(w io.Writer, queries []*sqlgen.Query, run func(*sqlgen.Query) (*executor.Result, error)) error {
	for _, q := range queries {
		res, err := run(q)
		if err != nil {
			return err
		}
		if res.Columns != nil {
			if err := ui.WriteTable(w, res.Columns, res.Strings()); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%d rows affected\n", res.RowsAffected)
	}
	return nil
}
