package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/buildpacks/buildcheck/internal/style"
)

// ParseUndecodedKeys lists the top-most unknown keys of a decoded TOML
// document, sorted, each styled as a symbol.
func ParseUndecodedKeys(undecodedKeys []toml.Key) string {
	unusedKeys := map[string]interface{}{}
	for _, key := range undecodedKeys {
		keyName := key.String()

		parent := strings.Split(keyName, ".")[0]

		if _, ok := unusedKeys[parent]; !ok {
			unusedKeys[keyName] = nil
		}
	}

	var errorKeys []string
	for errorKey := range unusedKeys {
		errorKeys = append(errorKeys, style.Symbol(errorKey))
	}
	sort.Strings(errorKeys)
	return strings.Join(errorKeys, ", ")
}
