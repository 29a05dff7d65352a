package commands_test

import (
	"bytes"
	"path/filepath"
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

func TestArtifactCommand(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Commands", testArtifactCommand, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testArtifactCommand(t *testing.T, when spec.G, it spec.S) {
	var (
		command *cobra.Command
		outBuf  bytes.Buffer
		repo    string
		cfg     config.Config
	)

	it.Before(func() {
		repo = t.TempDir()
		cfg = config.Default()
		cfg.LocalRepository = repo
		command = commands.Artifact(logging.NewLogWithWriters(&outBuf, &outBuf, logging.WithNoColor()), cfg)
	})

	when("#Artifact", func() {
		it("finds an installed artifact", func() {
			h.WriteFile(t, filepath.Join(repo, "org", "example", "demo", "1.0", "demo-1.0.jar"), "jar")
			h.WriteFile(t, filepath.Join(repo, "org", "example", "demo", "maven-metadata-local.xml"), "<metadata/>")

			command.SetArgs([]string{"org.example:demo:1.0"})
			h.AssertNil(t, command.Execute())
			h.AssertContains(t, outBuf.String(), "INFO  'org.example:demo:1.0:jar' found in")
			h.AssertNotContains(t, outBuf.String(), "WARN")
		})

		it("warns about missing metadata", func() {
			h.WriteFile(t, filepath.Join(repo, "org", "example", "demo", "1.0", "demo-1.0.pom"), "<project/>")

			command.SetArgs([]string{"org.example:demo:1.0:pom"})
			h.AssertNil(t, command.Execute())
			h.AssertContains(t, outBuf.String(), "WARN  no repository metadata for 'org.example:demo:1.0:pom'")
		})

		it("exits softly for a missing artifact", func() {
			command.SetArgs([]string{"org.example:demo:2.0"})
			err := command.Execute()
			h.AssertTrue(t, commands.IsSoftError(err))
			h.AssertContains(t, outBuf.String(), "not found in")
		})

		it("looks in the repository given by flag", func() {
			other := t.TempDir()
			h.WriteFile(t, filepath.Join(other, "org", "example", "demo", "1.0", "demo-1.0.jar"), "jar")

			command.SetArgs([]string{"--local-repository", other, "org.example:demo:1.0"})
			h.AssertNil(t, command.Execute())
			h.AssertContains(t, outBuf.String(), "found in")
		})

		it("rejects malformed coordinates", func() {
			command.SetArgs([]string{"org.example"})
			h.AssertNotNil(t, command.Execute())
			h.AssertContains(t, outBuf.String(), "ERROR invalid coordinate")
		})
	})
}
