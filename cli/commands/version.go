package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlbuilder/cli/internal/update"
	"github.com/satishbabariya/sqlbuilder/cli/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var latest string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, info.FullString())

			if latest == "" {
				return nil
			}
			newer, err := update.Check(info.Version, latest)
			if err != nil {
				return err
			}
			if newer {
				fmt.Fprintf(out, "\nA newer version is available: %s\nDownload: %s\n", latest, update.GetDownloadURL(latest))
			} else {
				fmt.Fprintln(out, "\nsqlbuilder is up to date")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&latest, "check", "", "Compare against this released version")

	return cmd
}
