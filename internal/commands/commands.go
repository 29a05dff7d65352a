package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/config"
)

// Logger is what commands need from the CLI logger.
type Logger interface {
	log.Interface
	Writer() io.Writer
	IsVerbose() bool
}

func AddHelpFlag(cmd *cobra.Command, commandName string) {
	cmd.Flags().BoolP("help", "h", false, fmt.Sprintf("Help for '%s'", commandName))
}

func CreateCancellableContext() context.Context {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-signals
		cancel()
	}()

	return ctx
}

func logError(logger Logger, f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		err := f(cmd, args)
		if err != nil {
			if !IsSoftError(err) {
				logger.Error(style.Error("%s", err.Error()))
			}
			return err
		}
		return nil
	}
}

// executable resolves the configured tool on PATH.
func executable(cfg config.Config) string {
	if path, err := exec.LookPath(cfg.Tool); err == nil {
		return path
	}
	return cfg.Tool
}

// localRepository picks the flag value, then the configured repository, then
// the user's default repository.
func localRepository(flag string, cfg config.Config) (string, error) {
	switch {
	case flag != "":
		return filepath.Abs(flag)
	case cfg.LocalRepository != "":
		return cfg.LocalRepository, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".m2", "repository"), nil
}
