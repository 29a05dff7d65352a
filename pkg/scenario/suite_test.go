package scenario_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/heroku/color"
	"github.com/pkg/errors"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/buildcheck/pkg/config"
	"github.com/buildpacks/buildcheck/pkg/harness"
	"github.com/buildpacks/buildcheck/pkg/scenario"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestSuite(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Suite", testSuite, spec.Report(report.Terminal{}))
}

// recorder captures skips and failures instead of ending the test.
type recorder struct {
	testing.TB
	skipped string
	fatal   string
}

func (r *recorder) Helper() {}

func (r *recorder) Skipf(format string, args ...interface{}) {
	r.skipped = fmt.Sprintf(format, args...)
}

func (r *recorder) Fatalf(format string, args ...interface{}) {
	r.fatal = fmt.Sprintf(format, args...)
}

func testSuite(t *testing.T, when spec.G, it spec.S) {
	var (
		cfg      config.Config
		project  string
		rec      *recorder
		discover int32
		entry    harness.EntryPoint
	)

	newSuite := func(discovered string) *scenario.Suite {
		s, err := scenario.NewSuite(cfg,
			scenario.WithHarnessOptions(harness.WithEntryPoint(entry), harness.WithForkByDefault(false)),
			scenario.WithVersionDiscovery(func(context.Context) (string, error) {
				atomic.AddInt32(&discover, 1)
				if discovered == "" {
					return "", errors.New("tool not installed")
				}
				return discovered, nil
			}),
		)
		h.AssertNil(t, err)
		return s
	}

	it.Before(func() {
		cfg = config.Default()
		cfg.Tool = "mvn-not-installed"
		project = filepath.Join(t.TempDir(), "mng-0870")
		h.WriteFile(t, filepath.Join(project, "pom.xml"), "<project/>")
		rec = &recorder{TB: t}
		atomic.StoreInt32(&discover, 0)
		entry = func(_ context.Context, req harness.Request) int {
			fmt.Fprintf(req.Output, "[INFO] %s\n", strings.Join(req.Args, " "))
			if err := os.MkdirAll(filepath.Join(req.Dir, "target"), 0755); err != nil {
				return 1
			}
			_ = os.WriteFile(filepath.Join(req.Dir, "target", "touch.txt"), []byte("touched\n"), 0644)
			for _, arg := range req.Args {
				if arg == "fail" {
					fmt.Fprintln(req.Output, "[ERROR] BUILD FAILURE")
					return 1
				}
			}
			return 0
		}
	})

	when("#Require", func() {
		it("runs scenarios inside the range", func() {
			s := newSuite("3.0-alpha-3")
			s.Require(rec, "(2.0.10,2.1.0-M1),(2.1.0-M1,3.0-alpha-1),[3.0-alpha-3,)")
			h.AssertEq(t, rec.skipped, "")
			h.AssertEq(t, rec.fatal, "")
		})

		it("skips scenarios outside the range", func() {
			s := newSuite("2.1.0-M1")
			s.Require(rec, "(2.0.10,2.1.0-M1),(2.1.0-M1,3.0-alpha-1),[3.0-alpha-3,)")
			h.AssertContains(t, rec.skipped, "'2.1.0-M1' does not match")
			h.AssertEq(t, rec.fatal, "")
		})

		it("fails on a malformed range", func() {
			s := newSuite("3.9.6")
			s.Require(rec, "[3.0,")
			h.AssertContains(t, rec.fatal, "invalid version range '[3.0,'")
			h.AssertEq(t, rec.skipped, "")
		})

		it("discovers the version once", func() {
			s := newSuite("3.9.6")
			s.Require(rec, "[3.0,)")
			s.Require(rec, "[3.9,)")
			h.AssertEq(t, atomic.LoadInt32(&discover), int32(1))
		})

		it("prefers the configured version", func() {
			cfg.ToolVersion = "2.2.1"
			s := newSuite("3.9.6")
			s.Require(rec, "[3.0,)")
			h.AssertContains(t, rec.skipped, "'2.2.1'")
			h.AssertEq(t, atomic.LoadInt32(&discover), int32(0))
		})

		it("fails when the version cannot be determined", func() {
			s := newSuite("")
			s.Require(rec, "[3.0,)")
			h.AssertContains(t, rec.fatal, "tool not installed")
		})
	})

	when("#Invocation", func() {
		it("isolates every scenario", func() {
			s := newSuite("3.9.6")
			first := s.Invocation(t, project)
			second := s.Invocation(t, project)

			h.AssertNotEq(t, first.WorkingDir(), second.WorkingDir())
			h.AssertNotEq(t, first.LocalRepository(), second.LocalRepository())
			h.AssertPathExists(t, filepath.Join(first.WorkingDir(), "pom.xml"))
		})

		it("shares the configured repository under the shared policy", func() {
			cfg.RepositoryPolicy = "shared"
			cfg.LocalRepository = filepath.Join(t.TempDir(), "shared")
			s := newSuite("3.9.6")

			h.AssertEq(t, s.Invocation(t, project).LocalRepository(), cfg.LocalRepository)
			h.AssertEq(t, s.Invocation(t, project).LocalRepository(), cfg.LocalRepository)
		})

		it("filters the settings template", func() {
			cfg.SettingsTemplate = filepath.Join(t.TempDir(), "settings-template.xml")
			h.WriteFile(t, cfg.SettingsTemplate, "<localRepository>@localRepo@</localRepository>")
			s := newSuite("3.9.6")

			inv := s.Invocation(t, project)
			h.AssertDirContainsFileWithContents(t, inv.WorkingDir(), "settings.xml", "<localRepository>"+inv.LocalRepository()+"</localRepository>")

			result, _ := s.Execute(t, inv.AddGoals("validate"))
			h.AssertSliceContains(t, result.Args(), filepath.Join(inv.WorkingDir(), "settings.xml"))
		})

		it("fails for a missing project", func() {
			s := newSuite("3.9.6")
			h.AssertNil(t, s.Invocation(rec, filepath.Join(project, "missing")))
			h.AssertContains(t, rec.fatal, "preparing")
		})
	})

	when("#Execute", func() {
		it("returns the result and an inspector", func() {
			s := newSuite("3.9.6")
			inv := s.Invocation(t, project).AddGoals("validate")

			result, inspector := s.Execute(t, inv)
			h.AssertEq(t, result.ExitCode(), 0)
			h.AssertTrue(t, inspector.ErrorFree())
			h.AssertTrue(t, inspector.FilePresent("target/touch.txt", false))

			lines, err := inspector.LoadLines("target/touch.txt")
			h.AssertNil(t, err)
			h.AssertEq(t, lines, []string{"touched"})
		})

		it("hands failed builds to the inspector", func() {
			s := newSuite("3.9.6")
			result, inspector := s.Execute(rec, s.Invocation(t, project).AddGoals("fail"))
			h.AssertEq(t, rec.fatal, "")
			h.AssertEq(t, result.ExitCode(), 1)
			h.AssertFalse(t, inspector.ErrorFree())
		})

		it("fails the test when the build cannot run", func() {
			s, err := scenario.NewSuite(cfg, scenario.WithVersionDiscovery(func(context.Context) (string, error) {
				return "3.9.6", nil
			}))
			h.AssertNil(t, err)

			result, inspector := s.Execute(rec, s.Invocation(t, project).AddGoals("validate"))
			h.AssertNil(t, result)
			h.AssertNil(t, inspector)
			h.AssertContains(t, rec.fatal, "launching")
		})
	})
}
