package commands

import (
	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/version"
)

// Match checks a version against a version range expression.
func Match(logger Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "match <range> <version>",
		Args:    cobra.ExactArgs(2),
		Short:   "Check whether a version lies in a version range",
		Example: `buildcheck match "(,3.0-alpha-1),[3.0-alpha-3,)" 3.9.6`,
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			r, err := version.ParseRange(args[0])
			if err != nil {
				return err
			}
			v, err := version.ParseVersion(args[1])
			if err != nil {
				return err
			}
			logger.Debugf("%s has %s", style.Symbol(r.String()), style.SymbolF("%d interval(s)", len(r.Intervals())))
			logger.Debugf("canonical form of %s is %s", style.Symbol(v.String()), style.Symbol(v.Canonical()))

			if !r.Matches(v) {
				logger.Infof("%s does not match %s", style.Symbol(v.String()), style.Symbol(args[0]))
				return MakeSoftError()
			}
			if r.Informational() {
				logger.Infof("%s is only a recommendation, every version matches", style.Symbol(args[0]))
				return nil
			}
			logger.Infof("%s matches %s", style.Symbol(v.String()), style.Symbol(args[0]))
			return nil
		}),
	}
	AddHelpFlag(cmd, "match")
	return cmd
}
