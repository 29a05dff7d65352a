package harness_test

import (
	"context"
	"os"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/buildcheck/pkg/harness"
	h "github.com/buildpacks/buildcheck/testhelpers"
)

func TestDiscover(t *testing.T) {
	spec.Run(t, "Discover", testDiscover, spec.Report(report.Terminal{}))
}

func testDiscover(t *testing.T, when spec.G, it spec.S) {
	when("#ParseVersionOutput", func() {
		it("reads the tool banner", func() {
			v, err := harness.ParseVersionOutput("\x1b[1mApache Maven 3.9.6 (bc0240f3c744dd6b6ec2920b3cd08dcc295161ae)\x1b[m\nMaven home: /opt/maven\nJava version: 17.0.9\n")
			h.AssertNil(t, err)
			h.AssertEq(t, v, "3.9.6")
		})

		it("keeps qualifiers", func() {
			v, err := harness.ParseVersionOutput("Apache Maven 4.0.0-alpha-12\n")
			h.AssertNil(t, err)
			h.AssertEq(t, v, "4.0.0-alpha-12")
		})

		it("falls back to the first version-like token", func() {
			v, err := harness.ParseVersionOutput("fake build tool version 2.1.0-M1\n")
			h.AssertNil(t, err)
			h.AssertEq(t, v, "2.1.0-M1")
		})

		it("fails without a version", func() {
			_, err := harness.ParseVersionOutput("usage: tool [options]\n")
			h.AssertErrorContains(t, err, "no version found")
		})
	})

	when("#DiscoverVersion", func() {
		it("runs the version command", func() {
			v, err := harness.DiscoverVersion(context.Background(), os.Args[0], harness.DefaultProfile, map[string]string{fakeToolEnv: "1"})
			h.AssertNil(t, err)
			h.AssertEq(t, v, "3.9.6")
		})
	})
}
