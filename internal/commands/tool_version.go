package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/config"
	"github.com/buildpacks/buildcheck/pkg/harness"
	"github.com/buildpacks/buildcheck/pkg/version"
)

// ToolVersion shows the version of the configured build tool, running the
// tool unless the version is configured.
func ToolVersion(logger Logger, cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool-version",
		Args:  cobra.NoArgs,
		Short: "Show the version of the configured build tool",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			raw := cfg.ToolVersion
			if raw == "" {
				exe := executable(cfg)
				logger.Debugf("running %s", style.Symbol(exe))

				var err error
				if raw, err = harness.DiscoverVersion(cmd.Context(), exe, harness.DefaultProfile, cfg.Env); err != nil {
					return err
				}
			} else {
				logger.Debug("using configured tool version")
			}

			v, err := version.ParseVersion(raw)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(logger.Writer(), v.String())
			return err
		}),
	}
	AddHelpFlag(cmd, "tool-version")
	return cmd
}
