package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestPaths(t *testing.T) {
	spec.Run(t, "Paths", testPaths, spec.Report(report.Terminal{}))
}

func testPaths(t *testing.T, when spec.G, it spec.S) {
	when("#IsURI", func() {
		it("recognizes schemes", func() {
			h.AssertTrue(t, IsURI("file:///tmp/repo"))
			h.AssertTrue(t, IsURI("https://repo.example.com/releases"))
			h.AssertFalse(t, IsURI("/tmp/repo"))
		})
	})

	when("#FilePathToURI", func() {
		when("is *nix", func() {
			it.Before(func() {
				h.SkipIf(t, runtime.GOOS == "windows", "Skipped on windows")
			})

			when("path is absolute", func() {
				it("returns uri", func() {
					uri, err := FilePathToURI("/tmp/repository", "")
					h.AssertNil(t, err)
					h.AssertEq(t, uri, "file:///tmp/repository")
				})
			})

			when("path is relative", func() {
				it("returns uri", func() {
					cwd, err := os.Getwd()
					h.AssertNil(t, err)

					uri, err := FilePathToURI("some/repository", "")
					h.AssertNil(t, err)
					h.AssertEq(t, uri, fmt.Sprintf("file://%s/some/repository", cwd))
				})

				it("returns uri based on relativeTo", func() {
					uri, err := FilePathToURI("some/repository", "/my/base/dir")
					h.AssertNil(t, err)
					h.AssertEq(t, uri, "file:///my/base/dir/some/repository")
				})
			})
		})

		when("is windows", func() {
			it.Before(func() {
				h.SkipIf(t, runtime.GOOS != "windows", "Skipped on non-windows")
			})

			it("returns uri", func() {
				uri, err := FilePathToURI(`C:\some\repository`, "")
				h.AssertNil(t, err)
				h.AssertEq(t, uri, `file:///C:/some/repository`)
			})
		})
	})

	when("#URIToFilePath", func() {
		it("rejects other schemes", func() {
			_, err := URIToFilePath("https://repo.example.com")
			h.AssertErrorContains(t, err, "is not a file URI")
		})

		when("is *nix", func() {
			it.Before(func() {
				h.SkipIf(t, runtime.GOOS == "windows", "Skipped on windows")
			})

			it("returns the unescaped path", func() {
				path, err := URIToFilePath("file:///tmp/some%20dir/repository")
				h.AssertNil(t, err)
				h.AssertEq(t, path, "/tmp/some dir/repository")
			})

			it("round trips", func() {
				uri, err := FilePathToURI("/tmp/repository", "")
				h.AssertNil(t, err)

				path, err := URIToFilePath(uri)
				h.AssertNil(t, err)
				h.AssertEq(t, path, "/tmp/repository")
			})
		})
	})

	when("#WildcardSegments", func() {
		it("counts segments with glob characters", func() {
			h.AssertEq(t, WildcardSegments("target/classes/App.class"), 0)
			h.AssertEq(t, WildcardSegments("target/*.jar"), 1)
			h.AssertEq(t, WildcardSegments("target/app-?.jar"), 1)
			h.AssertEq(t, WildcardSegments("*/lib/*.jar"), 2)
		})
	})

	when("#Within", func() {
		it("accepts the directory itself and descendants", func() {
			base := filepath.Join("tmp", "work")
			h.AssertTrue(t, Within(base, base))
			h.AssertTrue(t, Within(base, filepath.Join(base, "repo", "org")))
		})

		it("rejects siblings and prefixes", func() {
			base := filepath.Join("tmp", "work")
			h.AssertFalse(t, Within(base, filepath.Join("tmp", "workspace")))
			h.AssertFalse(t, Within(base, filepath.Join("tmp", "other")))
		})
	})
}
