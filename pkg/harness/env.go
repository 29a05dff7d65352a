package harness

import (
	"os"
	"runtime"
	"sort"
	"strings"
)

// MergeEnv overlays explicit variables onto an inherited environment given
// in os.Environ form. Explicit values win. On Windows variable names compare
// case-insensitively, keeping the spelling of the explicit variable.
func MergeEnv(inherited []string, explicit map[string]string) map[string]string {
	merged := make(map[string]string, len(inherited)+len(explicit))
	names := map[string]string{}

	set := func(key, value string) {
		canonical := key
		if runtime.GOOS == "windows" {
			canonical = strings.ToUpper(key)
		}
		if previous, ok := names[canonical]; ok && previous != key {
			delete(merged, previous)
		}
		names[canonical] = key
		merged[key] = value
	}

	for _, kv := range inherited {
		// Windows carries per-drive variables such as "=C:=C:\" that start
		// with '='; they are kept as is.
		eq := strings.IndexByte(kv[min(1, len(kv)):], '=')
		if eq < 0 {
			continue
		}
		eq += min(1, len(kv))
		set(kv[:eq], kv[eq+1:])
	}
	for k, v := range explicit {
		set(k, v)
	}
	return merged
}

// appendEnv appends value to the variable key, separated by a space. On
// Windows an existing variable is found regardless of case.
func appendEnv(env map[string]string, key, value string) {
	name := key
	if runtime.GOOS == "windows" {
		for k := range env {
			if strings.EqualFold(k, key) {
				name = k
				break
			}
		}
	}
	if existing := strings.TrimSpace(env[name]); existing != "" {
		value = existing + " " + value
	}
	env[name] = value
}

// environ renders env in the "key=value" form expected by os/exec, sorted for
// stable logs.
func environ(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func inheritedEnv() []string {
	return os.Environ()
}
