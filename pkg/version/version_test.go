package version_test

import (
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/buildcheck/pkg/version"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestVersion(t *testing.T) {
	spec.Run(t, "Version", testVersion, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testVersion(t *testing.T, when spec.G, it spec.S) {
	compare := func(a, b string) int {
		t.Helper()
		return version.MustParseVersion(a).Compare(version.MustParseVersion(b))
	}

	when("#ParseVersion", func() {
		it("rejects empty input", func() {
			_, err := version.ParseVersion("  ")
			h.AssertErrorAs(t, err, new(*version.ParseError))
		})

		it("rejects characters outside the version alphabet", func() {
			_, err := version.ParseVersion("1.0[")
			h.AssertErrorAs(t, err, new(*version.ParseError))
			h.AssertErrorContains(t, err, "unexpected character")
		})

		it("splits conventional components", func() {
			v := version.MustParseVersion("3.2.5-12")
			h.AssertEq(t, v.Major(), 3)
			h.AssertEq(t, v.Minor(), 2)
			h.AssertEq(t, v.Incremental(), 5)
			h.AssertEq(t, v.BuildNumber(), 12)
			h.AssertEq(t, v.Qualifier(), "")

			v = version.MustParseVersion("3.0-alpha-1")
			h.AssertEq(t, v.Major(), 3)
			h.AssertEq(t, v.Minor(), 0)
			h.AssertEq(t, v.Qualifier(), "alpha-1")
		})

		it("keeps irregular versions as a qualifier", func() {
			v := version.MustParseVersion("1.2.3.4")
			h.AssertEq(t, v.Major(), 0)
			h.AssertEq(t, v.Qualifier(), "1.2.3.4")
		})
	})

	when("#Compare", func() {
		it("compares numeric segments numerically", func() {
			h.AssertEq(t, compare("2.0.10", "2.0.9"), 1)
			h.AssertEq(t, compare("2.0.11", "2.0.10"), 1)
			h.AssertEq(t, compare("10", "9"), 1)
			h.AssertEq(t, compare("1.0.0123", "1.0.123"), 0)
			h.AssertEq(t, compare("12345678901234567890", "12345678901234567891"), -1)
		})

		it("ignores trailing zeros and release qualifiers", func() {
			h.AssertEq(t, compare("1", "1.0"), 0)
			h.AssertEq(t, compare("1.0.0", "1"), 0)
			h.AssertEq(t, compare("1-ga", "1"), 0)
			h.AssertEq(t, compare("1.0-final", "1"), 0)
			h.AssertEq(t, compare("1.0.RELEASE", "1.0"), 0)
		})

		it("orders named qualifiers by rank", func() {
			ordered := []string{
				"1.0-alpha-1",
				"1.0-alpha-2",
				"1.0-beta-1",
				"1.0-M1",
				"1.0-rc-1",
				"1.0-SNAPSHOT",
				"1.0",
				"1.0-sp",
				"1.0-xyz",
				"1.0.1",
			}
			for i := 0; i < len(ordered)-1; i++ {
				if compare(ordered[i], ordered[i+1]) >= 0 {
					t.Fatalf("expected %s < %s", ordered[i], ordered[i+1])
				}
				if compare(ordered[i+1], ordered[i]) <= 0 {
					t.Fatalf("expected %s > %s", ordered[i+1], ordered[i])
				}
			}
		})

		it("expands single letter qualifiers followed by a digit", func() {
			h.AssertEq(t, compare("1.0a1", "1.0-alpha-1"), 0)
			h.AssertEq(t, compare("1.0b2", "1.0-beta-2"), 0)
			h.AssertEq(t, compare("1.0m3", "1.0-milestone-3"), 0)
			h.AssertEq(t, compare("1.0-cr1", "1.0-rc1"), 0)
		})

		it("is case insensitive", func() {
			h.AssertEq(t, compare("2.1.0-M1", "2.1.0-m1"), 0)
			h.AssertEq(t, compare("1.0-SNAPSHOT", "1.0-snapshot"), 0)
		})

		it("places milestones of the next minor above patch releases", func() {
			h.AssertEq(t, compare("2.1.0-M1", "2.0.11"), 1)
			h.AssertEq(t, compare("3.0-alpha-1", "2.1.0-M1"), 1)
		})
	})

	when("#Canonical", func() {
		it("normalizes equivalent spellings", func() {
			h.AssertEq(t, version.MustParseVersion("1.0.0-ga").Canonical(), version.MustParseVersion("1").Canonical())
		})
	})
}
