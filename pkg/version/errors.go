package version

import "fmt"

// ParseError is returned for malformed versions and version ranges.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %s", e.Input, e.Reason)
}
