package inspect

import (
	"fmt"
	"strings"
)

// NotFoundError reports a file an inspection needed but could not find.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

// AssertionFailure describes a failed verification: what was checked, what
// was expected, what was found and the end of the build log.
type AssertionFailure struct {
	Check    string
	Expected string
	Actual   string
	LogFile  string
	Excerpt  []string
}

func (e *AssertionFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: expected %s, got %s", e.Check, e.Expected, e.Actual)
	if e.LogFile != "" {
		fmt.Fprintf(&b, " (log: %s)", e.LogFile)
	}
	if len(e.Excerpt) > 0 {
		b.WriteString("\n  ")
		b.WriteString(strings.Join(e.Excerpt, "\n  "))
	}
	return b.String()
}
