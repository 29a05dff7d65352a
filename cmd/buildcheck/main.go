package main

import (
	"os"

	"github.com/heroku/color"

	"github.com/buildpacks/buildcheck/cmd"
	"github.com/buildpacks/buildcheck/internal/commands"
	"github.com/buildpacks/buildcheck/internal/logging"
)

func main() {
	// create logger with defaults
	logger := logging.NewLogWithWriters(color.Stdout(), color.Stderr())

	rootCmd, err := cmd.NewBuildcheckCommand(logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx := commands.CreateCancellableContext()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
