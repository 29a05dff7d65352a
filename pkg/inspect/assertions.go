package inspect

import (
	"testing"

	h "github.com/buildpacks/buildcheck/testhelpers"
)

// Assertions fails a test with the message of the first failed verification.
type Assertions struct {
	testObject testing.TB
	assert     h.AssertionManager
	inspector  *Inspector
}

func NewAssertions(t testing.TB, inspector *Inspector) Assertions {
	return Assertions{
		testObject: t,
		assert:     h.NewAssertionManager(t),
		inspector:  inspector,
	}
}

func (a Assertions) Inspector() *Inspector {
	return a.inspector
}

func (a Assertions) ErrorFree() {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyErrorFree())
}

func (a Assertions) TextInLog(text string) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyTextInLog(text))
}

func (a Assertions) TextNotInLog(text string) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyTextNotInLog(text))
}

func (a Assertions) FilePresent(path string) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyFilePresent(path))
}

func (a Assertions) FileNotPresent(path string) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyFileNotPresent(path))
}

func (a Assertions) Property(path, key, expected string) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyProperty(path, key, expected))
}

func (a Assertions) ArtifactPresent(coord Coordinate) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyArtifactPresent(coord))
}

func (a Assertions) ArtifactNotPresent(coord Coordinate) {
	a.testObject.Helper()
	a.assert.Succeeds(a.inspector.VerifyArtifactNotPresent(coord))
}

// Lines returns the trimmed non-blank lines of a file, failing the test when
// it cannot be read.
func (a Assertions) Lines(path string) []string {
	a.testObject.Helper()
	lines, err := a.inspector.LoadLines(path)
	a.assert.Nil(err)
	return lines
}

func (a Assertions) Properties(path string) map[string]string {
	a.testObject.Helper()
	props, err := a.inspector.LoadProperties(path)
	a.assert.Nil(err)
	return props
}
