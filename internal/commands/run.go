package commands

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/config"
	"github.com/buildpacks/buildcheck/pkg/harness"
)

// RunFlags define flags provided to the Run command
type RunFlags struct {
	Dir             string
	LocalRepository string
	Settings        string
	ArgsFile        string
	Threads         string
	Properties      []string
	Profiles        []string
	Timeout         time.Duration
	Debug           bool
	Autoclean       bool
	ArgumentFile    bool
}

// Run executes the build tool once in an existing project, echoing its
// output. Extra harness options are applied after the configured ones.
func Run(logger Logger, cfg config.Config, opts ...harness.Option) *cobra.Command {
	var flags RunFlags
	timeout, _ := cfg.TimeoutDuration()

	cmd := &cobra.Command{
		Use:     "run [flags] -- <goals and options>",
		Args:    cobra.ArbitraryArgs,
		Short:   "Run the build tool in a project and capture its log",
		Example: "buildcheck run --dir ./it/mng-0870 -D test.property=value -- validate",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			inv, err := runInvocation(flags, cfg, args)
			if err != nil {
				return err
			}

			h := harness.New(append([]harness.Option{
				harness.WithExecutable(executable(cfg)),
				harness.WithTimeout(flags.Timeout),
				harness.WithLogger(logger),
				harness.WithEcho(logger.Writer()),
			}, opts...)...)

			logger.Info(style.Step("Building %s", inv.WorkingDir()))
			if len(cfg.Env) > 0 {
				logger.Debugf("configured environment %s", style.Map(cfg.Env, "", " "))
			}

			result, err := h.Execute(cmd.Context(), inv)
			var (
				failure *harness.ExecutionFailure
				timeout *harness.TimeoutError
			)
			switch {
			case errors.As(err, &failure):
				logger.Warnf("%s, log at %s", style.Warn("build failed with exit code %d", failure.ExitCode), style.Symbol(failure.LogFile))
				if !flags.Debug {
					logger.Info(style.Tip("Rerun with --debug to see the build tool's debug output"))
				}
				return MakeSoftError()
			case errors.As(err, &timeout):
				logger.Warnf("%s, log at %s", style.Warn("build did not finish within %s", timeout.Limit), style.Symbol(timeout.LogFile))
				return MakeSoftError()
			case err != nil:
				return err
			}

			logger.Infof("%s in %s, log at %s",
				style.Success("build succeeded"),
				result.Duration().Round(time.Millisecond),
				style.Faint(result.LogFile()))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", ".", "Project directory to run in")
	cmd.Flags().StringVarP(&flags.LocalRepository, "local-repository", "r", "", "Local repository to build against"+stringDefault(cfg.LocalRepository))
	cmd.Flags().StringVarP(&flags.Settings, "settings", "s", "", "User settings file")
	cmd.Flags().StringVar(&flags.ArgsFile, "args-file", "", "Read further arguments from an argument file")
	cmd.Flags().StringVarP(&flags.Threads, "threads", "T", "", "Thread count, e.g. 4 or 1.5C")
	cmd.Flags().StringArrayVarP(&flags.Properties, "define", "D", nil, "System property as <key>=<value>"+multiValueHelp("property"))
	cmd.Flags().StringSliceVarP(&flags.Profiles, "profile", "P", nil, "Profile to activate"+multiValueHelp("profile"))
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", timeout, "Terminate the build after this long, 0 to wait forever")
	cmd.Flags().BoolVarP(&flags.Debug, "debug", "X", false, "Run the build tool with debug output")
	cmd.Flags().BoolVar(&flags.Autoclean, "autoclean", false, "Remove output directories before building")
	cmd.Flags().BoolVar(&flags.ArgumentFile, "argument-file", cfg.ArgumentFile, "Pass arguments through an argument file")
	AddHelpFlag(cmd, "run")
	return cmd
}

func runInvocation(flags RunFlags, cfg config.Config, args []string) (*harness.Invocation, error) {
	dir, err := filepath.Abs(flags.Dir)
	if err != nil {
		return nil, err
	}
	repo, err := localRepository(flags.LocalRepository, cfg)
	if err != nil {
		return nil, err
	}

	inv := harness.NewInvocation(dir).
		SetLocalRepository(repo).
		SetAutoclean(flags.Autoclean).
		UseArgumentFile(flags.ArgumentFile).
		AddJVMOptions(cfg.JVMOptions...).
		AddProfiles(flags.Profiles...)

	for k, v := range cfg.Env {
		inv.SetEnv(k, v)
	}
	for _, p := range flags.Properties {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid system property %s, expected <key>=<value>", style.Symbol(p))
		}
		inv.SetSystemProperty(key, value)
	}
	if flags.Settings != "" {
		inv.SetSettingsFile(flags.Settings)
	}
	if flags.Threads != "" {
		if err := harness.ValidateThreadSpec(flags.Threads); err != nil {
			return nil, err
		}
		inv.SetThreads(flags.Threads)
	}
	if flags.Debug {
		inv.SetVerbosity(harness.VerbosityDebug)
	}
	if flags.ArgsFile != "" {
		if err := inv.ArgsFromFile(flags.ArgsFile); err != nil {
			return nil, err
		}
	}
	// goals and options after -- keep their order
	inv.AddCLIArgs(args...)
	return inv, nil
}

func multiValueHelp(name string) string {
	return "\nRepeat for each " + name + " in order"
}
