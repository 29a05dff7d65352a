// Package style colors CLI and error output.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/heroku/color"
)

// Symbol highlights a value, quoting it when color is disabled.
var Symbol = func(value string) string {
	if color.Enabled() {
		return Key(value)
	}
	return "'" + value + "'"
}

var SymbolF = func(format string, a ...interface{}) string {
	return Symbol(fmt.Sprintf(format, a...))
}

// Map renders key=value pairs sorted by key as a single symbol.
var Map = func(value map[string]string, prefix, separator string) string {
	keys := make([]string, 0, len(value))
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+value[k])
	}
	return Symbol(strings.Join(pairs, separator+prefix))
}

var Key = color.HiBlueString

var Tip = color.New(color.FgGreen, color.Bold).SprintfFunc()

var Warn = color.New(color.FgYellow, color.Bold).SprintfFunc()

var Error = color.New(color.FgRed, color.Bold).SprintfFunc()

var Step = func(format string, a ...interface{}) string {
	return color.CyanString("===> "+format, a...)
}

var Success = color.GreenString

var Faint = color.HiBlackString
