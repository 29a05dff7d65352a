package commands_test

import (
	"bytes"
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/spf13/cobra"

	"github.com/buildpacks/buildcheck/internal/commands"
	"github.com/buildpacks/buildcheck/internal/logging"
	"github.com/buildpacks/buildcheck/pkg/config"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestVersion(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Commands", testVersionCommand, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testVersionCommand(t *testing.T, when spec.G, it spec.S) {
	var (
		command *cobra.Command
		outBuf  bytes.Buffer
	)

	when("#Version", func() {
		it("returns version", func() {
			command = commands.Version(logging.NewLogWithWriters(&outBuf, &outBuf), "0.4.0")
			command.SetArgs([]string{})
			h.AssertNil(t, command.Execute())
			h.AssertEq(t, outBuf.String(), "0.4.0\n")
		})
	})

	when("#ToolVersion", func() {
		it("prefers the configured version", func() {
			cfg := config.Default()
			cfg.ToolVersion = "3.9.6"
			command = commands.ToolVersion(logging.NewLogWithWriters(&outBuf, &outBuf), cfg)
			command.SetArgs([]string{})
			h.AssertNil(t, command.Execute())
			h.AssertEq(t, outBuf.String(), "3.9.6\n")
		})

		it("fails when the tool cannot be run", func() {
			cfg := config.Default()
			cfg.Tool = "buildcheck-missing-tool"
			command = commands.ToolVersion(logging.NewLogWithWriters(&outBuf, &outBuf, logging.WithNoColor()), cfg)
			command.SetArgs([]string{})
			h.AssertNotNil(t, command.Execute())
			h.AssertContains(t, outBuf.String(), "ERROR launching buildcheck-missing-tool")
		})
	})
}
