package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/config"
	"github.com/satishbabariya/sqlbuilder/cli/internal/ui"
	"github.com/satishbabariya/sqlbuilder/cli/internal/watch"
	"github.com/satishbabariya/sqlbuilder/internal/debug"
	"github.com/satishbabariya/sqlbuilder/query/builder"
	"github.com/satishbabariya/sqlbuilder/query/statement"
)

// NewBuildCommand creates the build command.
func NewBuildCommand(cfg *config.Config) *cobra.Command {
	var (
		src    sourceFlags
		pretty bool
		watchF bool
	)

	cmd := &cobra.Command{
		Use:   "build [statements.yaml]",
		Short: "Render SQL statements",
		Long: `Render the statements of a YAML statement file, or a SELECT described by flags.

Examples:
  sqlbuilder build queries/users.yaml
  sqlbuilder build --table users --columns id,first_name --where "age > 30" --limit 10
  sqlbuilder build queries/users.yaml --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := statementPath(args, cfg, &src)
			defaults, overrides := renderOptions(cmd, cfg)

			render := func(w io.Writer) error {
				stmts, err := loadStatements(path, &src)
				if err != nil {
					return err
				}
				return writeStatements(w, stmts, defaults, overrides, pretty)
			}

			if watchF {
				if path == "" {
					return fmt.Errorf("--watch needs a statement file")
				}
				return runBuildWatch(cmd.OutOrStdout(), path, render)
			}
			return render(cmd.OutOrStdout())
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Highlight the SQL")
	cmd.Flags().BoolVar(&watchF, "watch", false, "Re-render when the statement file changes")

	return cmd
}

func writeStatements(w io.Writer, stmts []*statement.Statement, defaults, overrides []builder.Option, pretty bool) error {
	queries, err := renderAll(stmts, defaults, overrides)
	if err != nil {
		return err
	}
	for i, q := range queries {
		debug.Debug("rendered statement", "name", stmts[i].Name, "sql", q.SQL, "args", len(q.Args))
		if err := ui.WriteStatement(w, stmts[i].Name, q.SQL, q.Args, pretty); err != nil {
			return err
		}
	}
	return nil
}

func runBuildWatch(out io.Writer, path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	last := buf.String()
	fmt.Fprint(out, last)

	rebuild := func() error {
		var next bytes.Buffer
		if err := render(&next); err != nil {
			return err
		}
		if next.String() == last {
			ui.PrintInfo("%s changed, statements unchanged", path)
			return nil
		}
		ui.PrintInfo("%s changed", path)
		ui.PrintDiff(last, next.String())
		last = next.String()
		return nil
	}

	watcher, err := watch.NewWatcher(path, rebuild, watch.WithErrorHandler(func(err error) {
		ui.PrintError("%v", err)
	}))
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.Start()

	ui.PrintSuccess("Watching %s for changes... (Press Ctrl+C to stop)", path)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ui.PrintInfo("Stopping watch mode...")
	return nil
}
