package cmd

import (
	"io"

	"github.com/apex/log"
	"github.com/heroku/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/commands"
	"github.com/buildpacks/buildcheck/pkg/config"
)

// Version is replaced at build time.
var Version = "0.0.0"

// ConfigurableLogger defines behavior required by the buildcheck command
type ConfigurableLogger interface {
	commands.Logger
	ErrorWriter() io.Writer
	WantTime(f bool)
	WantQuiet(f bool)
	WantVerbose(f bool)
}

// NewBuildcheckCommand generates the buildcheck command
func NewBuildcheckCommand(logger ConfigurableLogger) (*cobra.Command, error) {
	cobra.EnableCommandSorting = false
	cfg, cfgPath, err := initConfig()
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:   "buildcheck",
		Short: "CLI for running and checking build tool integration scenarios",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if fs := cmd.Flags(); fs != nil {
				if flag, err := fs.GetBool("no-color"); err == nil {
					color.Disable(flag)
				}
				if flag, err := fs.GetBool("quiet"); err == nil {
					logger.WantQuiet(flag)
				}
				if flag, err := fs.GetBool("verbose"); err == nil {
					logger.WantVerbose(flag)
				}
				if flag, err := fs.GetBool("timestamps"); err == nil {
					logger.WantTime(flag)
				}
			}
			logger.WithFields(log.Fields{"config": cfgPath, "tool": cfg.Tool}).Debug("loaded configuration")
		},
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("timestamps", false, "Enable timestamps in output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Show less output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show more output")
	rootCmd.Flags().Bool("version", false, "Show current 'buildcheck' version")

	commands.AddHelpFlag(rootCmd, "buildcheck")

	rootCmd.AddCommand(commands.Run(logger, cfg))
	rootCmd.AddCommand(commands.Match(logger))
	rootCmd.AddCommand(commands.Artifact(logger, cfg))
	rootCmd.AddCommand(commands.ToolVersion(logger, cfg))
	rootCmd.AddCommand(commands.Version(logger, Version))

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{.Version}}{{"\n"}}`)
	rootCmd.SetOut(logger.Writer())
	rootCmd.SetErr(logger.ErrorWriter())

	return rootCmd, nil
}

func initConfig() (config.Config, string, error) {
	path := config.DefaultConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", errors.Wrap(err, "reading buildcheck config")
	}
	return cfg, path, nil
}
