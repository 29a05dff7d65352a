package harness

import (
	"bytes"
	"context"
	"regexp"

	"github.com/pkg/errors"
)

var (
	toolVersionPattern = regexp.MustCompile(`Apache Maven (\S+)`)
	anyVersionPattern  = regexp.MustCompile(`\b\d+(?:\.\d+)+(?:[-.][A-Za-z0-9]+)*`)
)

// DiscoverVersion runs the tool's version command and returns the version it
// reports.
func DiscoverVersion(ctx context.Context, executable string, profile Profile, env map[string]string) (string, error) {
	var out bytes.Buffer
	code, err := Fork{Executable: executable}.Launch(ctx, Request{
		Args:   []string{profile.VersionFlag},
		Env:    MergeEnv(inheritedEnv(), env),
		Output: &out,
	})
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", errors.Errorf("%s %s exited with code %d", executable, profile.VersionFlag, code)
	}
	return ParseVersionOutput(out.String())
}

// ParseVersionOutput extracts the tool version from its version banner.
func ParseVersionOutput(output string) (string, error) {
	output = StripANSI(output)
	if m := toolVersionPattern.FindStringSubmatch(output); m != nil {
		return m[1], nil
	}
	if v := anyVersionPattern.FindString(output); v != "" {
		return v, nil
	}
	return "", errors.New("no version found in tool output")
}
