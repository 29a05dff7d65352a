package version_test

import (
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/buildcheck/pkg/version"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestRange(t *testing.T) {
	spec.Run(t, "Range", testRange, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testRange(t *testing.T, when spec.G, it spec.S) {
	matches := func(expr, candidate string) bool {
		t.Helper()
		r, err := version.ParseRange(expr)
		h.AssertNil(t, err)
		ok, err := r.MatchesString(candidate)
		h.AssertNil(t, err)
		return ok
	}

	when("#ParseRange", func() {
		for _, expr := range []string{
			"[1.0,2.0",
			"1.0,2.0]",
			"[1.0,(2.0]",
			"(1.0)",
			"[1.0)",
			"[2.0,1.0]",
			"[1.0,1.0)",
			"[1.0,2.0],1.5",
			"[1.0,2.0],",
			"[1.0,2.0],[1.5,3.0]",
			"(,2.0],(,3.0]",
			"[1.0,2.0,3.0]",
			"[1.0,2.0)x",
			"[1.0$,2.0]",
			"",
		} {
			expr := expr
			it("rejects "+expr, func() {
				_, err := version.ParseRange(expr)
				h.AssertErrorAs(t, err, new(*version.ParseError))
			})
		}

		it("tolerates white space around bounds", func() {
			r, err := version.ParseRange(" [ 1.0 , 2.0 ) , [3.0,) ")
			h.AssertNil(t, err)
			h.AssertEq(t, r.String(), "[1.0,2.0),[3.0,)")
		})

		it("accepts abutting exclusive bounds", func() {
			_, err := version.ParseRange("(2.0.10,2.1.0-M1),(2.1.0-M1,3.0-alpha-1)")
			h.AssertNil(t, err)
		})

		it("renders exact versions", func() {
			h.AssertEq(t, version.MustParseRange("[3.0]").String(), "[3.0]")
		})
	})

	when("half open interval [a,b)", func() {
		it("includes the lower bound and excludes the upper bound", func() {
			h.AssertTrue(t, matches("[2.0,3.0)", "2.0"))
			h.AssertTrue(t, matches("[2.0,3.0)", "2.9.9"))
			h.AssertFalse(t, matches("[2.0,3.0)", "3.0"))
			h.AssertFalse(t, matches("[2.0,3.0)", "1.9"))
		})

		it("flips boundary behavior with inclusivity", func() {
			h.AssertFalse(t, matches("(2.0,3.0]", "2.0"))
			h.AssertTrue(t, matches("(2.0,3.0]", "3.0"))
			h.AssertTrue(t, matches("[2.0,3.0]", "2.0"))
			h.AssertTrue(t, matches("[2.0,3.0]", "3.0"))
			h.AssertFalse(t, matches("(2.0,3.0)", "2.0"))
			h.AssertFalse(t, matches("(2.0,3.0)", "3.0"))
		})

		it("agrees with the version order", func() {
			lower := version.MustParseVersion("2.0")
			upper := version.MustParseVersion("3.0")
			r := version.MustParseRange("[2.0,3.0)")
			for _, s := range []string{"1.0", "2.0-SNAPSHOT", "2.0", "2.0.1", "2.5-beta-1", "3.0-alpha-1", "3.0", "3.0.1"} {
				v := version.MustParseVersion(s)
				expected := !v.LessThan(lower) && v.LessThan(upper)
				h.AssertEq(t, r.Matches(v), expected)
			}
		})
	})

	when("unbounded intervals", func() {
		it("treats missing bounds as infinite", func() {
			h.AssertTrue(t, matches("(,1.0]", "0.0.1"))
			h.AssertTrue(t, matches("(,1.0]", "1.0"))
			h.AssertFalse(t, matches("(,1.0]", "1.0.1"))
			h.AssertTrue(t, matches("[1.0,)", "99"))
			h.AssertFalse(t, matches("[1.0,)", "1.0-SNAPSHOT"))
		})
	})

	when("exact versions", func() {
		it("matches only equal versions", func() {
			h.AssertTrue(t, matches("[3.0]", "3.0.0"))
			h.AssertFalse(t, matches("[3.0]", "3.0.1"))
		})
	})

	when("unions", func() {
		it("matches iff any interval matches", func() {
			r := version.MustParseRange("(,1.0],[1.2,1.4),[2.0]")
			for _, s := range []string{"0.9", "1.0", "1.1", "1.2", "1.3.9", "1.4", "2.0", "2.1"} {
				v := version.MustParseVersion(s)
				expected := false
				for _, i := range r.Intervals() {
					expected = expected || i.Contains(v)
				}
				h.AssertEq(t, r.Matches(v), expected)
			}
			h.AssertTrue(t, matches("(,1.0],[1.2,1.4),[2.0]", "1.3"))
			h.AssertFalse(t, matches("(,1.0],[1.2,1.4),[2.0]", "1.1"))
		})

		it("accepts intervals following an unbounded one", func() {
			r, err := version.ParseRange("[1.0,),[2.0,)")
			h.AssertNil(t, err)
			h.AssertEq(t, len(r.Intervals()), 2)
			h.AssertTrue(t, r.Matches(version.MustParseVersion("1.5")))
			h.AssertTrue(t, r.Matches(version.MustParseVersion("2.5")))
			h.AssertFalse(t, r.Matches(version.MustParseVersion("0.9")))
		})

		it("excludes the gaps between milestone ranges", func() {
			expr := "(2.0.10,2.1.0-M1),(2.1.0-M1,3.0-alpha-1),[3.0-alpha-3,)"
			h.AssertTrue(t, matches(expr, "3.0-alpha-3"))
			h.AssertTrue(t, matches(expr, "2.0.11"))
			h.AssertTrue(t, matches(expr, "3.9.6"))
			h.AssertFalse(t, matches(expr, "2.1.0-M1"))
			h.AssertFalse(t, matches(expr, "2.0.10"))
			h.AssertFalse(t, matches(expr, "3.0-alpha-2"))
			h.AssertFalse(t, matches(expr, "3.0-alpha-1"))
		})
	})

	when("bare version tokens", func() {
		it("matches unconditionally and keeps the hint", func() {
			r := version.MustParseRange("2.0.8")
			h.AssertTrue(t, r.Informational())
			h.AssertTrue(t, r.Matches(version.MustParseVersion("1.0")))
			h.AssertTrue(t, r.Matches(version.MustParseVersion("4.0-alpha-1")))

			hint, ok := r.Recommended()
			h.AssertTrue(t, ok)
			h.AssertEq(t, hint.String(), "2.0.8")
		})

		it("is not informational when bracketed", func() {
			r := version.MustParseRange("[2.0.8,)")
			h.AssertFalse(t, r.Informational())
			_, ok := r.Recommended()
			h.AssertFalse(t, ok)
		})
	})

	when("#MatchesString", func() {
		it("reports malformed candidates", func() {
			_, err := version.MustParseRange("[1.0,)").MatchesString("1.0 beta")
			h.AssertErrorAs(t, err, new(*version.ParseError))
		})
	})
}
