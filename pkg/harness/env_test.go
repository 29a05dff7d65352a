package harness_test

import (
	"runtime"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/buildcheck/pkg/harness"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestEnv(t *testing.T) {
	spec.Run(t, "Env", testEnv, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testEnv(t *testing.T, when spec.G, it spec.S) {
	when("#MergeEnv", func() {
		it("lets explicit variables win", func() {
			env := harness.MergeEnv(
				[]string{"PATH=/usr/bin", "MAVEN_OPTS=-Xmx1g"},
				map[string]string{"MAVEN_OPTS": "-Xmx256m", "EXTRA": "1"},
			)
			h.AssertEq(t, env, map[string]string{
				"PATH":       "/usr/bin",
				"MAVEN_OPTS": "-Xmx256m",
				"EXTRA":      "1",
			})
		})

		it("keeps values containing equals signs", func() {
			env := harness.MergeEnv([]string{"OPTS=-Da=b"}, nil)
			h.AssertEq(t, env["OPTS"], "-Da=b")
		})

		it("skips malformed entries", func() {
			env := harness.MergeEnv([]string{"NOEQUALS", "OK=1"}, nil)
			h.AssertEq(t, env, map[string]string{"OK": "1"})
		})

		when("on windows", func() {
			it.Before(func() {
				h.SkipIf(t, runtime.GOOS != "windows", "Skipped on non-windows")
			})

			it("compares names case-insensitively", func() {
				env := harness.MergeEnv([]string{"Path=C:\\Windows", "=C:=C:\\"}, map[string]string{"PATH": "C:\\tools"})
				h.AssertEq(t, env, map[string]string{"PATH": "C:\\tools", "=C:": "C:\\"})
			})
		})

		when("on *nix", func() {
			it.Before(func() {
				h.SkipIf(t, runtime.GOOS == "windows", "Skipped on windows")
			})

			it("treats names differing in case as distinct", func() {
				env := harness.MergeEnv([]string{"Path=/a"}, map[string]string{"PATH": "/b"})
				h.AssertEq(t, env, map[string]string{"Path": "/a", "PATH": "/b"})
			})
		})
	})
}
