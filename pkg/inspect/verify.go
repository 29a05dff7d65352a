package inspect

import (
	"fmt"
	"strconv"

	"github.com/buildpacks/buildcheck/internal/style"
	"github.com/buildpacks/buildcheck/pkg/harness"
)

func (i *Inspector) failure(check, expected, actual string) *AssertionFailure {
	return &AssertionFailure{
		Check:    check,
		Expected: expected,
		Actual:   actual,
		LogFile:  i.logFile,
		Excerpt:  i.excerpt(),
	}
}

func (i *Inspector) excerpt() []string {
	n := i.excerptLines
	if n > len(i.lines) {
		n = len(i.lines)
	}
	out := make([]string, 0, n)
	for _, l := range i.lines[len(i.lines)-n:] {
		out = append(out, l.Text)
	}
	return out
}

func describeLine(l *harness.LogLine) string {
	return fmt.Sprintf("line %d %s", l.Number, strconv.Quote(l.Text))
}

// VerifyErrorFree fails on the first error line of the log.
func (i *Inspector) VerifyErrorFree() error {
	if l := i.firstError(); l != nil {
		return i.failure("error-free log", "no error lines", describeLine(l))
	}
	return nil
}

func (i *Inspector) VerifyTextInLog(text string) error {
	if i.findText(text) == nil {
		return i.failure("log text", style.Symbol(text)+" in log", "no matching line")
	}
	return nil
}

func (i *Inspector) VerifyTextNotInLog(text string) error {
	if l := i.findText(text); l != nil {
		return i.failure("log text", style.Symbol(text)+" absent from log", describeLine(l))
	}
	return nil
}

// VerifyFilePresent fails unless path exists. One segment may be a wildcard.
func (i *Inspector) VerifyFilePresent(path string) error {
	matches, err := i.resolveFiles(path, true)
	if err != nil {
		return i.failure("file present", style.Symbol(path), err.Error())
	}
	if len(matches) == 0 {
		return i.failure("file present", style.Symbol(path), "no such file")
	}
	return nil
}

// VerifyFileNotPresent fails when path, or any file matching it, exists.
func (i *Inspector) VerifyFileNotPresent(path string) error {
	matches, err := i.resolveFiles(path, true)
	if err != nil {
		return i.failure("file absent", "no "+style.Symbol(path), err.Error())
	}
	if len(matches) > 0 {
		return i.failure("file absent", "no "+style.Symbol(path), fmt.Sprintf("%d matching: %s", len(matches), matches[0]))
	}
	return nil
}

// VerifyProperty fails unless the properties file at path maps key to
// expected.
func (i *Inspector) VerifyProperty(path, key, expected string) error {
	props, err := i.LoadProperties(path)
	if err != nil {
		return i.failure("property "+key, strconv.Quote(expected), err.Error())
	}
	actual, ok := props[key]
	if !ok {
		return i.failure("property "+key, strconv.Quote(expected), "no such property in "+path)
	}
	if actual != expected {
		return i.failure("property "+key, strconv.Quote(expected), strconv.Quote(actual))
	}
	return nil
}

func (i *Inspector) VerifyArtifactPresent(coord Coordinate) error {
	if !i.ArtifactPresent(coord) {
		return i.failure("artifact installed", style.Symbol(coord.String()), "not found at "+i.ArtifactPath(coord))
	}
	return nil
}

func (i *Inspector) VerifyArtifactNotPresent(coord Coordinate) error {
	if i.ArtifactPresent(coord) {
		return i.failure("artifact absent", "no "+style.Symbol(coord.String()), "installed in "+coord.Dir(i.localRepository))
	}
	return nil
}
