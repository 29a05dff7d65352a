package version

import (
	"strings"
)

// qualifiers in ascending order; the empty qualifier is a release.
var qualifiers = []string{"alpha", "beta", "milestone", "rc", "snapshot", "", "sp"}

var qualifierAliases = map[string]string{
	"ga":      "",
	"final":   "",
	"release": "",
	"cr":      "rc",
}

var releaseRank = rankOf("")

type item interface {
	// compare orders the receiver against other, which may be nil.
	compare(other item) int
	isNull() bool
	String() string
}

// intItem holds a digit string without leading zeros, so arbitrarily long
// numbers order correctly by length and then lexically.
type intItem string

func newIntItem(digits string) intItem {
	digits = strings.TrimLeft(digits, "0")
	return intItem(digits)
}

func (i intItem) isNull() bool {
	return i == ""
}

func (i intItem) String() string {
	if i == "" {
		return "0"
	}
	return string(i)
}

func (i intItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if i.isNull() {
			return 0
		}
		return 1
	case intItem:
		if len(i) != len(o) {
			return sign(len(i) - len(o))
		}
		return strings.Compare(string(i), string(o))
	default:
		// 1.1 > 1-sp and 1.1 > 1-1
		return 1
	}
}

type stringItem struct {
	value string
}

func newStringItem(value string, followedByDigit bool) stringItem {
	if followedByDigit && len(value) == 1 {
		switch value {
		case "a":
			value = "alpha"
		case "b":
			value = "beta"
		case "m":
			value = "milestone"
		}
	}
	if alias, ok := qualifierAliases[value]; ok {
		value = alias
	}
	return stringItem{value: value}
}

func (s stringItem) isNull() bool {
	return rankOf(s.value) == releaseRank
}

func (s stringItem) String() string {
	return s.value
}

func (s stringItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		return strings.Compare(rankOf(s.value), releaseRank)
	case stringItem:
		return strings.Compare(rankOf(s.value), rankOf(o.value))
	default:
		// 1.any < 1.1 and 1-any < 1-1
		return -1
	}
}

// rankOf returns a sortable key for a qualifier: known qualifiers by their
// position, unknown ones after all known ones in lexical order.
func rankOf(qualifier string) string {
	for i, q := range qualifiers {
		if q == qualifier {
			return string(rune('0' + i))
		}
	}
	return string(rune('0'+len(qualifiers))) + "-" + qualifier
}

type listItem []item

func (l listItem) isNull() bool {
	return len(l) == 0
}

func (l listItem) String() string {
	var b strings.Builder
	for i, it := range l {
		if i > 0 {
			if _, nested := it.(listItem); nested {
				b.WriteByte('-')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString(it.String())
	}
	return b.String()
}

func (l listItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if len(l) == 0 {
			return 0
		}
		return l[0].compare(nil)
	case intItem:
		return -1
	case stringItem:
		return 1
	case listItem:
		for i := 0; i < len(l) || i < len(o); i++ {
			var left, right item
			if i < len(l) {
				left = l[i]
			}
			if i < len(o) {
				right = o[i]
			}

			var result int
			if left == nil {
				if right != nil {
					result = -right.compare(nil)
				}
			} else {
				result = left.compare(right)
			}
			if result != 0 {
				return result
			}
		}
		return 0
	}
	return 0
}

// normalize drops trailing null items (0, release qualifiers, empty lists).
func (l listItem) normalize() listItem {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].isNull() {
			l = append(l[:i], l[i+1:]...)
		} else if _, nested := l[i].(listItem); !nested {
			break
		}
	}
	return l
}

// parseItems splits a version into nested item lists: '.' separates items,
// '-' and letter/digit transitions open a sub-list.
func parseItems(version string) listItem {
	version = strings.ToLower(version)

	// each level is a pointer so nested lists can be appended to after
	// they have been linked into their parent
	root := &listItem{}
	current := root

	push := func() {
		child := &listItem{}
		*current = append(*current, listPlaceholder{child})
		current = child
	}

	isDigitRun := false
	start := 0
	for i := 0; i < len(version); i++ {
		c := version[i]
		switch {
		case c == '.':
			if i == start {
				*current = append(*current, intItem(""))
			} else {
				*current = append(*current, parseItem(isDigitRun, version[start:i]))
			}
			start = i + 1
		case c == '-':
			if i == start {
				*current = append(*current, intItem(""))
			} else {
				*current = append(*current, parseItem(isDigitRun, version[start:i]))
			}
			start = i + 1
			push()
		case isDigit(c):
			if !isDigitRun && i > start {
				*current = append(*current, newStringItem(version[start:i], true))
				start = i
				push()
			}
			isDigitRun = true
		default:
			if isDigitRun && i > start {
				*current = append(*current, parseItem(true, version[start:i]))
				start = i
				push()
			}
			isDigitRun = false
		}
	}
	if len(version) > start {
		*current = append(*current, parseItem(isDigitRun, version[start:]))
	}

	return resolve(*root)
}

func parseItem(digits bool, s string) item {
	if digits {
		return newIntItem(s)
	}
	return newStringItem(s, false)
}

// listPlaceholder links a child list that is still being filled.
type listPlaceholder struct {
	list *listItem
}

func (p listPlaceholder) compare(item) int { return 0 }
func (p listPlaceholder) isNull() bool     { return false }
func (p listPlaceholder) String() string   { return "" }

// resolve replaces placeholders by their final lists, normalizing inner lists
// before outer ones.
func resolve(l listItem) listItem {
	out := make(listItem, 0, len(l))
	for _, it := range l {
		if p, ok := it.(listPlaceholder); ok {
			out = append(out, resolve(*p.list))
			continue
		}
		out = append(out, it)
	}
	return out.normalize()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
