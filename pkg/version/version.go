// Package version implements build-tool version ordering and version ranges.
//
// Versions follow the conventional build-tool ordering: dot separated numeric
// items compare numerically, '-' (or a switch between letters and digits)
// opens a nested sub-list, and named qualifiers compare by a fixed rank.
package version

import (
	"strings"
)

// Version is a parsed, comparable version string.
type Version struct {
	raw   string
	items listItem
}

// ParseVersion parses s into a Version. Empty strings and strings containing
// characters outside [A-Za-z0-9._+-] are rejected.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, &ParseError{Input: s, Reason: "empty version"}
	}

	for _, c := range trimmed {
		if !isVersionChar(c) {
			return Version{}, &ParseError{Input: s, Reason: "unexpected character " + quoteRune(c)}
		}
	}

	return Version{raw: trimmed, items: parseItems(trimmed)}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return v.raw
}

// Canonical returns the normalized form used for comparisons, e.g.
// "1.0-ga" and "1" share the canonical form "1".
func (v Version) Canonical() string {
	return v.items.String()
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	return v.items.compare(o.items)
}

func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

func (v Version) LessThan(o Version) bool {
	return v.Compare(o) < 0
}

func (v Version) GreaterThan(o Version) bool {
	return v.Compare(o) > 0
}

// Major, Minor and Incremental return the leading numeric segments of a
// "major.minor.incremental-qualifier" shaped version, or 0 when absent.
func (v Version) Major() int {
	return v.segments().major
}

func (v Version) Minor() int {
	return v.segments().minor
}

func (v Version) Incremental() int {
	return v.segments().incremental
}

// Qualifier returns the non-numeric suffix of the version, if any.
func (v Version) Qualifier() string {
	return v.segments().qualifier
}

// BuildNumber returns the numeric suffix ("1.2-3" has build number 3).
func (v Version) BuildNumber() int {
	return v.segments().build
}

type segments struct {
	major, minor, incremental, build int
	qualifier                        string
}

// segments splits the raw version the way older tool releases reported
// version components; anything that does not fit is kept as the qualifier.
func (v Version) segments() segments {
	main, suffix := v.raw, ""
	if i := strings.IndexByte(v.raw, '-'); i >= 0 {
		main, suffix = v.raw[:i], v.raw[i+1:]
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 || !allDigits(parts) {
		return segments{qualifier: v.raw}
	}

	var s segments
	nums := []*int{&s.major, &s.minor, &s.incremental}
	for i, p := range parts {
		*nums[i] = atoi(p)
	}

	switch {
	case suffix == "":
	case isDigits(suffix) && !strings.HasPrefix(suffix, "0"):
		s.build = atoi(suffix)
	default:
		s.qualifier = suffix
	}
	return s
}

func isVersionChar(c rune) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '.', c == '-', c == '_', c == '+':
		return true
	}
	return false
}

func quoteRune(c rune) string {
	return "'" + string(c) + "'"
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func allDigits(parts []string) bool {
	for _, p := range parts {
		if !isDigits(p) {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<30 {
			return 1 << 30
		}
	}
	return n
}
