package commands

import (
	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/config"
	"github.com/buildpacks/buildcheck/pkg/inspect"
)

// Artifact checks whether an artifact was installed into a local repository.
func Artifact(logger Logger, cfg config.Config) *cobra.Command {
	var repository string

	cmd := &cobra.Command{
		Use:     "artifact <group:artifact:version[:type[:classifier]]>",
		Args:    cobra.ExactArgs(1),
		Short:   "Check whether an artifact is present in a local repository",
		Example: "buildcheck artifact org.example:demo:1.0-SNAPSHOT:pom",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			coord, err := inspect.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			repo, err := localRepository(repository, cfg)
			if err != nil {
				return err
			}

			i := inspect.ForDir("", repo, nil)
			if !i.ArtifactPresent(coord) {
				logger.Infof("%s not found in %s", style.Symbol(coord.String()), style.Symbol(repo))
				return MakeSoftError()
			}

			logger.Infof("%s found in %s", style.Symbol(coord.String()), style.Symbol(coord.Dir(repo)))
			if i.ArtifactMetadataPresent(coord) {
				logger.Debug("repository metadata present")
			} else {
				logger.Warnf("no repository metadata for %s", style.Symbol(coord.String()))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&repository, "local-repository", "r", "", "Local repository to look in"+stringDefault(cfg.LocalRepository))
	AddHelpFlag(cmd, "artifact")
	return cmd
}

func stringDefault(value string) string {
	if value == "" {
		return ""
	}
	return " (default " + style.Symbol(value) + ")"
}
