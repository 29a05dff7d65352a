// Package paths converts between file-system paths and file URLs and handles
// the single-segment wildcards accepted by file lookups.
package paths

import (
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

var schemeRegexp = regexp.MustCompile(`^.+://.*`)

func IsURI(ref string) bool {
	return schemeRegexp.MatchString(ref)
}

// FilePathToURI returns the file URL of path. Relative paths are resolved
// against relativeTo, or the current directory when relativeTo is empty.
func FilePathToURI(path, relativeTo string) (string, error) {
	if !filepath.IsAbs(path) {
		var err error
		if relativeTo != "" {
			path = filepath.Join(relativeTo, path)
		} else if path, err = filepath.Abs(path); err != nil {
			return "", err
		}
	}

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, `\\`) {
			return "file://" + filepath.ToSlash(strings.TrimPrefix(path, `\\`)), nil
		}
		return "file:///" + filepath.ToSlash(path), nil
	}
	return "file://" + path, nil
}

// examples:
//
// - unix file: file://laptop/some%20dir/file.tgz
//
// - windows drive: file:///C:/Documents%20and%20Settings/file.tgz
//
// - windows share: file://laptop/My%20Documents/file.tgz
func URIToFilePath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", errors.Errorf("%s is not a file URI", uri)
	}

	osPath, err := url.PathUnescape(filepath.FromSlash(strings.TrimPrefix(uri, "file://")))
	if err != nil {
		return "", errors.Wrapf(err, "unescaping %s", uri)
	}

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(osPath, `\`) {
			return strings.TrimPrefix(osPath, `\`), nil
		}
		return `\\` + osPath, nil
	}
	return osPath, nil
}

// IsWildcard reports whether a path segment contains a glob metacharacter.
func IsWildcard(segment string) bool {
	return strings.ContainsAny(segment, "*?")
}

// WildcardSegments counts the segments of a slash or OS separated path that
// contain a wildcard.
func WildcardSegments(path string) int {
	n := 0
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if IsWildcard(segment) {
			n++
		}
	}
	return n
}

// Within reports whether child is parent or lies below it.
func Within(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
