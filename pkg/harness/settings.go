package harness

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/buildpacks/buildcheck/internal/paths"
)

// DefaultSettingsValues returns the placeholder values every settings
// template can use: localRepo, localRepoUrl and baseurl.
func DefaultSettingsValues(workingDir, localRepository string) (map[string]string, error) {
	repoURL, err := paths.FilePathToURI(localRepository, workingDir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving local repository URL")
	}
	baseURL, err := paths.FilePathToURI(workingDir, "")
	if err != nil {
		return nil, errors.Wrap(err, "resolving base URL")
	}
	return map[string]string{
		"localRepo":    localRepository,
		"localRepoUrl": repoURL,
		"baseurl":      baseURL,
	}, nil
}

// FilterSettings writes the template at src to dst with every @key@
// placeholder replaced by values[key]. Unknown placeholders and stray @ signs
// are copied unchanged.
func FilterSettings(src, dst string, values map[string]string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrap(err, "reading settings template")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}
	return errors.Wrap(
		os.WriteFile(dst, []byte(Interpolate(string(data), values)), 0644),
		"writing settings file",
	)
}

// Interpolate replaces @key@ placeholders in s.
func Interpolate(s string, values map[string]string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '@')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+1:], '@')
		if end < 0 {
			break
		}
		end += start + 1

		key := s[start+1 : end]
		value, ok := values[key]
		if !ok || key == "" {
			// the closing @ may open the next placeholder
			b.WriteString(s[:end])
			s = s[end:]
			continue
		}
		b.WriteString(s[:start])
		b.WriteString(value)
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
