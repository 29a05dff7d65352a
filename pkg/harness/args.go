package harness

import (
	"regexp"
	"strconv"
	"strings"
)

// NormalizeArgs removes the one pair of matching outer quotes a shell would
// have removed from each argument. For "-Dkey=value" arguments only the value
// is considered, so -Dname="Test Property" becomes -Dname=Test Property.
// Embedded spaces, pipes and inner quotes are preserved.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		out = append(out, normalizeArg(arg))
	}
	return out
}

func normalizeArg(arg string) string {
	if strings.HasPrefix(arg, "-D") {
		if eq := strings.IndexByte(arg, '='); eq > 2 {
			return arg[:eq+1] + unquote(arg[eq+1:])
		}
	}
	return unquote(arg)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

var threadSpecPattern = regexp.MustCompile(`^(?:[1-9][0-9]*|[0-9]+(?:\.[0-9]+)?C)$`)

// ValidateThreadSpec accepts a plain thread count ("4") or a per-core
// multiplier ("1C", "0.5C"). The tool interprets the value; the harness only
// rejects forms it would refuse.
func ValidateThreadSpec(spec string) error {
	if !threadSpecPattern.MatchString(spec) {
		return &ParseError{Source: "thread count " + strconv.Quote(spec), Reason: "expected N or N[.M]C"}
	}
	if strings.HasSuffix(spec, "C") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(spec, "C"), 64)
		if err != nil || f <= 0 {
			return &ParseError{Source: "thread count " + strconv.Quote(spec), Reason: "core multiplier must be positive"}
		}
	}
	return nil
}
