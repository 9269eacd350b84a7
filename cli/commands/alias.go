package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/ui"
	"github.com/satishbabariya/sqlbuilder/query/columns"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// NewAliasCommand creates the alias command.
func NewAliasCommand() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "alias <columns>...",
		Short: "Print camelCase aliases for snake_case columns",
		Long: `Print the aliased select list for the given columns.

Examples:
  sqlbuilder alias first_name,last_name
  sqlbuilder alias user.first_name --delimiter .`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			for _, arg := range args {
				names = append(names, strings.Split(arg, ",")...)
			}
			out, err := columns.GetAliases(sqlgen.List(names...), delimiter)
			if err != nil {
				return err
			}
			ui.ColorPrint(cmd.OutOrStdout(), ui.GetColorPrinters()["primary"], "%s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", columns.DefaultDelimiter, "Word delimiter in column names")

	return cmd
}
