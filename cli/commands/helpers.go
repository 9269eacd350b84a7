package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/config"
	"github.com/satishbabariya/sqlbuilder/query/builder"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
	"github.com/satishbabariya/sqlbuilder/query/statement"
)

// sourceFlags describe a statement given on the command line instead of in
// a file
type sourceFlags struct {
	table   string
	columns string
	where   []string
	groupBy string
	orderBy string
	order   string
	limit   int
	offset  int
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Build a SELECT on this table instead of reading a file")
	cmd.Flags().StringVarP(&f.columns, "columns", "c", "", "Comma separated columns to select")
	cmd.Flags().StringArrayVarP(&f.where, "where", "w", nil, `Filter expression, e.g. "age > 30" (repeatable)`)
	cmd.Flags().StringVar(&f.groupBy, "group-by", "", "GROUP BY column")
	cmd.Flags().StringVar(&f.orderBy, "order-by", "", "ORDER BY column")
	cmd.Flags().StringVar(&f.order, "order", "", "Order direction (asc or desc)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "LIMIT")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "OFFSET")
}

// statementPath picks the statement file: the argument, else the configured
// path. It is empty when the statement comes from flags.
func statementPath(args []string, cfg *config.Config, f *sourceFlags) string {
	if len(args) > 0 {
		return args[0]
	}
	if f.table != "" {
		return ""
	}
	return cfg.StatementsPath
}

// loadStatements returns the statements of path, or the statement described
// by the flags when path is empty. Filter expressions are added to every
// statement.
func loadStatements(path string, f *sourceFlags) ([]*statement.Statement, error) {
	if path == "" {
		s := &statement.Statement{
			Kind:    statement.KindSelect,
			Table:   f.table,
			Filters: f.where,
			GroupBy: f.groupBy,
			OrderBy: f.orderBy,
			Order:   f.order,
			Limit:   f.limit,
			Offset:  f.offset,
		}
		if strings.TrimSpace(f.columns) != "" {
			s.Columns = statement.NewColumns(sqlgen.Raw(f.columns))
		}
		return []*statement.Statement{s}, nil
	}

	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	stmts, err := statement.Load(config.AppFs, path)
	if err != nil {
		return nil, err
	}
	for _, s := range stmts {
		s.Filters = append(s.Filters, f.where...)
	}
	return stmts, nil
}

// renderOptions returns the config values as defaults and the explicitly
// set flags as overrides, so a statement file sits between the two.
func renderOptions(cmd *cobra.Command, cfg *config.Config) (defaults, overrides []builder.Option) {
	defaults = []builder.Option{
		builder.WithPreparedStatement(cfg.PreparedStatement),
		builder.WithCamelCaseColumns(cfg.CamelCase),
	}
	if cmd.Flags().Changed("prepared") {
		overrides = append(overrides, builder.WithPreparedStatement(cfg.PreparedStatement))
	}
	if cmd.Flags().Changed("camel-case") {
		overrides = append(overrides, builder.WithCamelCaseColumns(cfg.CamelCase))
	}
	return defaults, overrides
}

// renderAll renders every statement, stopping at the first error
func renderAll(stmts []*statement.Statement, defaults, overrides []builder.Option) ([]*sqlgen.Query, error) {
	queries := make([]*sqlgen.Query, 0, len(stmts))
	for i, s := range stmts {
		q, err := s.RenderWithDefaults(defaults, overrides...)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// resolvePath makes path absolute against the working directory
func resolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, path), nil
}
