package version

import (
	"strings"
)

// Interval is a single bounded or unbounded span of versions. A nil bound is
// unbounded on that side.
type Interval struct {
	Lower          *Version
	LowerInclusive bool
	Upper          *Version
	UpperInclusive bool
}

// Contains reports whether v lies within the interval, respecting bound
// inclusivity.
func (i Interval) Contains(v Version) bool {
	if i.Lower != nil {
		c := i.Lower.Compare(v)
		if c > 0 || (c == 0 && !i.LowerInclusive) {
			return false
		}
	}
	if i.Upper != nil {
		c := i.Upper.Compare(v)
		if c < 0 || (c == 0 && !i.UpperInclusive) {
			return false
		}
	}
	return true
}

func (i Interval) String() string {
	var b strings.Builder
	if i.LowerInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}

	if i.Lower != nil && i.Upper != nil && i.LowerInclusive && i.UpperInclusive && i.Lower.Equal(*i.Upper) {
		b.WriteString(i.Lower.String())
		b.WriteByte(']')
		return b.String()
	}

	if i.Lower != nil {
		b.WriteString(i.Lower.String())
	}
	b.WriteByte(',')
	if i.Upper != nil {
		b.WriteString(i.Upper.String())
	}
	if i.UpperInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

var everything = Interval{}

// Range is a union of intervals. A range parsed from a bare version token
// carries that version as a recommendation and matches every version.
type Range struct {
	expr        string
	intervals   []Interval
	recommended *Version
}

// ParseRange parses a range expression such as "[1.0,2.0)", "(,1.0],[1.2,)"
// or "[3.0]". A bare version without brackets yields an informational range
// that matches unconditionally.
func ParseRange(expr string) (Range, error) {
	r := Range{expr: expr}

	process := strings.TrimSpace(expr)
	if process == "" {
		return Range{}, &ParseError{Input: expr, Reason: "empty range"}
	}

	var upperBound *Version
	for strings.HasPrefix(process, "[") || strings.HasPrefix(process, "(") {
		end := strings.IndexAny(process, "])")
		if end < 0 {
			return Range{}, &ParseError{Input: expr, Reason: "unbalanced brackets"}
		}

		interval, err := parseInterval(expr, process[:end+1])
		if err != nil {
			return Range{}, err
		}

		// only a bounded predecessor constrains where the next interval starts
		if upperBound != nil {
			if interval.Lower == nil || interval.Lower.LessThan(*upperBound) {
				return Range{}, &ParseError{Input: expr, Reason: "ranges overlap"}
			}
		}
		r.intervals = append(r.intervals, interval)
		upperBound = interval.Upper

		process = strings.TrimSpace(process[end+1:])
		if strings.HasPrefix(process, ",") {
			process = strings.TrimSpace(process[1:])
			if process == "" {
				return Range{}, &ParseError{Input: expr, Reason: "trailing separator"}
			}
		}
	}

	if process != "" {
		if len(r.intervals) > 0 {
			return Range{}, &ParseError{Input: expr, Reason: "only bracketed intervals are allowed in a union"}
		}
		if strings.ContainsAny(process, "[]()") {
			return Range{}, &ParseError{Input: expr, Reason: "unbalanced brackets"}
		}

		v, err := ParseVersion(process)
		if err != nil {
			return Range{}, &ParseError{Input: expr, Reason: "malformed version " + quote(process)}
		}
		r.recommended = &v
		r.intervals = []Interval{everything}
	}

	return r, nil
}

// MustParseRange is like ParseRange but panics on error. It is meant for
// ranges declared as package-level constants.
func MustParseRange(expr string) Range {
	r, err := ParseRange(expr)
	if err != nil {
		panic(err)
	}
	return r
}

func parseInterval(expr, spec string) (Interval, error) {
	lowerInclusive := strings.HasPrefix(spec, "[")
	upperInclusive := strings.HasSuffix(spec, "]")

	inner := strings.TrimSpace(spec[1 : len(spec)-1])
	if strings.ContainsAny(inner, "[]()") {
		return Interval{}, &ParseError{Input: expr, Reason: "unbalanced brackets in " + quote(spec)}
	}

	comma := strings.IndexByte(inner, ',')
	if comma < 0 {
		if !lowerInclusive || !upperInclusive {
			return Interval{}, &ParseError{Input: expr, Reason: "single version must be surrounded by [] in " + quote(spec)}
		}
		v, err := parseBound(expr, inner)
		if err != nil {
			return Interval{}, err
		}
		if v == nil {
			return Interval{}, &ParseError{Input: expr, Reason: "empty interval " + quote(spec)}
		}
		return Interval{Lower: v, LowerInclusive: true, Upper: v, UpperInclusive: true}, nil
	}

	lowerSpec := strings.TrimSpace(inner[:comma])
	upperSpec := strings.TrimSpace(inner[comma+1:])
	if strings.Contains(upperSpec, ",") {
		return Interval{}, &ParseError{Input: expr, Reason: "too many bounds in " + quote(spec)}
	}
	if lowerSpec != "" && lowerSpec == upperSpec {
		return Interval{}, &ParseError{Input: expr, Reason: "interval cannot have identical boundaries in " + quote(spec)}
	}

	lower, err := parseBound(expr, lowerSpec)
	if err != nil {
		return Interval{}, err
	}
	upper, err := parseBound(expr, upperSpec)
	if err != nil {
		return Interval{}, err
	}
	if lower != nil && upper != nil && upper.LessThan(*lower) {
		return Interval{}, &ParseError{Input: expr, Reason: "interval defies version ordering in " + quote(spec)}
	}

	return Interval{
		Lower:          lower,
		LowerInclusive: lowerInclusive,
		Upper:          upper,
		UpperInclusive: upperInclusive,
	}, nil
}

func parseBound(expr, s string) (*Version, error) {
	if s == "" {
		return nil, nil
	}
	v, err := ParseVersion(s)
	if err != nil {
		return nil, &ParseError{Input: expr, Reason: "malformed version " + quote(s)}
	}
	return &v, nil
}

// Matches reports whether v falls in any interval of the union.
func (r Range) Matches(v Version) bool {
	for _, i := range r.intervals {
		if i.Contains(v) {
			return true
		}
	}
	return false
}

// MatchesString parses candidate and reports whether it is in the range.
func (r Range) MatchesString(candidate string) (bool, error) {
	v, err := ParseVersion(candidate)
	if err != nil {
		return false, err
	}
	return r.Matches(v), nil
}

// Intervals returns a copy of the union's intervals.
func (r Range) Intervals() []Interval {
	return append([]Interval(nil), r.intervals...)
}

// Recommended returns the bare version a range was declared with, if any.
// Such ranges are informational and never constrain matching.
func (r Range) Recommended() (Version, bool) {
	if r.recommended == nil {
		return Version{}, false
	}
	return *r.recommended, true
}

// Informational reports whether the range was declared as a bare version.
func (r Range) Informational() bool {
	return r.recommended != nil
}

func (r Range) String() string {
	if r.recommended != nil {
		return r.recommended.String()
	}
	parts := make([]string, 0, len(r.intervals))
	for _, i := range r.intervals {
		parts = append(parts, i.String())
	}
	return strings.Join(parts, ",")
}

func quote(s string) string {
	return "'" + s + "'"
}
