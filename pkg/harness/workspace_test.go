package harness_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/buildcheck/pkg/harness"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestWorkspace(t *testing.T) {
	spec.Run(t, "Workspace", testWorkspace, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testWorkspace(t *testing.T, when spec.G, it spec.S) {
	var (
		source  string
		subject *harness.Workspace
	)

	it.Before(func() {
		source = filepath.Join(t.TempDir(), "mng-4992")
		h.WriteFile(t, filepath.Join(source, "pom.xml"), "<project/>")
		h.WriteFile(t, filepath.Join(source, "sub", "src", "App.java"), "class App {}")

		var err error
		subject, err = harness.NewWorkspace(filepath.Join(t.TempDir(), "work"))
		h.AssertNil(t, err)
	})

	when("#Project", func() {
		it("copies the project into a fresh directory", func() {
			first, err := subject.Project(source)
			h.AssertNil(t, err)
			second, err := subject.Project(source)
			h.AssertNil(t, err)

			h.AssertNotEq(t, first, second)
			h.AssertTrue(t, strings.HasPrefix(filepath.Base(first), "mng-4992-"))
			h.AssertEq(t, filepath.Dir(first), subject.Root())
			h.AssertDirContainsFileWithContents(t, filepath.Join(first, "sub", "src"), "App.java", "class App {}")
		})

		it("leaves the source untouched by changes to the copy", func() {
			dir, err := subject.Project(source)
			h.AssertNil(t, err)
			h.AssertNil(t, os.Remove(filepath.Join(dir, "pom.xml")))
			h.AssertPathExists(t, filepath.Join(source, "pom.xml"))
		})

		it("rejects a missing project", func() {
			_, err := subject.Project(filepath.Join(source, "missing"))
			h.AssertErrorContains(t, err, "reading project")
		})
	})

	when("#Repository", func() {
		it("returns a fresh repository per call", func() {
			first, err := subject.Repository()
			h.AssertNil(t, err)
			second, err := subject.Repository()
			h.AssertNil(t, err)
			h.AssertNotEq(t, first, second)
			h.AssertPathExists(t, first)
		})

		it("returns the shared repository when configured", func() {
			subject.SharedRepository = filepath.Join(subject.Root(), "shared")

			first, err := subject.Repository()
			h.AssertNil(t, err)
			second, err := subject.Repository()
			h.AssertNil(t, err)
			h.AssertEq(t, first, subject.SharedRepository)
			h.AssertEq(t, second, subject.SharedRepository)
			h.AssertPathExists(t, subject.SharedRepository)
		})
	})

	when("#Invocation", func() {
		it("isolates the project, repository and home", func() {
			inv, err := subject.Invocation(source)
			h.AssertNil(t, err)

			h.AssertTrue(t, strings.HasPrefix(inv.WorkingDir(), subject.Root()))
			h.AssertTrue(t, strings.HasPrefix(inv.LocalRepository(), subject.Root()))
			h.AssertPathExists(t, filepath.Join(inv.WorkingDir(), "pom.xml"))
		})
	})
}
