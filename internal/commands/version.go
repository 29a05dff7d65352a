package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version shows the current buildcheck version
func Version(logger Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Args:  cobra.NoArgs,
		Short: "Show current 'buildcheck' version",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(logger.Writer(), version)
			return err
		}),
	}
	AddHelpFlag(cmd, "version")
	return cmd
}
