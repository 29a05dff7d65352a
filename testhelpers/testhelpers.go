package testhelpers

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/heroku/color"
)

// Assert deep equality (and provide useful difference as a test failure)
func AssertEq(t testing.TB, actual, expected interface{}) {
	t.Helper()
	if diff := cmp.Diff(actual, expected); diff != "" {
		t.Fatal(diff)
	}
}

func AssertNotEq(t testing.TB, actual, expected interface{}) {
	t.Helper()
	if diff := cmp.Diff(actual, expected); diff == "" {
		t.Fatalf("Expected values to differ: %s", actual)
	}
}

func AssertTrue(t testing.TB, actual bool) {
	t.Helper()
	if !actual {
		t.Fatal("Expected true")
	}
}

func AssertFalse(t testing.TB, actual bool) {
	t.Helper()
	if actual {
		t.Fatal("Expected false")
	}
}

func AssertError(t testing.TB, actual error, expected string) {
	t.Helper()
	if actual == nil {
		t.Fatalf("Expected an error but got nil")
	}
	if actual.Error() != expected {
		t.Fatalf(`Expected error to equal "%s", got "%s"`, expected, actual.Error())
	}
}

func AssertErrorContains(t testing.TB, actual error, expected string) {
	t.Helper()
	if actual == nil {
		t.Fatalf("Expected %q an error but got nil", expected)
	}
	AssertContains(t, actual.Error(), expected)
}

// AssertErrorAs fails unless errors.As finds target's type in actual's chain.
// target is a pointer to a variable of the wanted error type, e.g.
// new(*harness.TimeoutError).
func AssertErrorAs(t testing.TB, actual error, target interface{}) {
	t.Helper()
	if actual == nil {
		t.Fatalf("Expected an error of type %T but got nil", target)
	}
	if !errors.As(actual, target) {
		t.Fatalf("Expected error of type %s, got %T: %s", reflect.TypeOf(target).Elem(), actual, actual)
	}
}

func AssertErrorIs(t testing.TB, actual, target error) {
	t.Helper()
	if !errors.Is(actual, target) {
		t.Fatalf("Expected error %q, got %v", target, actual)
	}
}

func AssertContains(t testing.TB, actual, expected string) {
	t.Helper()
	if !strings.Contains(actual, expected) {
		t.Fatalf(
			"Expected '%s' to contain '%s'\n\nDiff:%s",
			actual,
			expected,
			cmp.Diff(expected, actual),
		)
	}
}

func AssertNotContains(t testing.TB, actual, expected string) {
	t.Helper()
	if strings.Contains(actual, expected) {
		t.Fatalf("Expected '%s' not to contain '%s'", actual, expected)
	}
}

func AssertSliceContains(t testing.TB, slice []string, value string) {
	t.Helper()
	for _, s := range slice {
		if value == s {
			return
		}
	}
	t.Fatalf("Expected: '%s' to contain element '%s'", slice, value)
}

func AssertMatch(t testing.TB, actual string, expected string) {
	t.Helper()
	if !regexp.MustCompile(expected).MatchString(actual) {
		t.Fatalf("Expected: '%s' to match regex '%s'", actual, expected)
	}
}

func AssertNil(t testing.TB, actual interface{}) {
	t.Helper()
	if !isNil(actual) {
		t.Fatalf("Expected nil: %s", actual)
	}
}

func AssertNotNil(t testing.TB, actual interface{}) {
	t.Helper()
	if isNil(actual) {
		t.Fatal("Expected not nil")
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return reflect.ValueOf(value).IsNil()
	}
	return false
}

func AssertPathExists(t testing.TB, path string) {
	t.Helper()
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Expected %q to exist", path)
	} else if err != nil {
		t.Fatalf("Error stating %q: %v", path, err)
	}
}

func AssertPathDoesNotExist(t testing.TB, path string) {
	t.Helper()
	_, err := os.Stat(path)
	if err == nil {
		t.Errorf("Expected %q to not exist", path)
	} else if !os.IsNotExist(err) {
		t.Fatalf("Error stating %q: %v", path, err)
	}
}

func AssertDirContainsFileWithContents(t testing.TB, dir string, file string, expected string) {
	t.Helper()
	path := filepath.Join(dir, file)
	bytes, err := os.ReadFile(path)
	AssertNil(t, err)
	if string(bytes) != expected {
		t.Fatalf("file %s in dir %s has wrong contents: %s != %s", file, dir, string(bytes), expected)
	}
}

// WriteFile creates path (and its parents) with the given contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()
	AssertNil(t, os.MkdirAll(filepath.Dir(path), 0755))
	AssertNil(t, os.WriteFile(path, []byte(contents), 0644))
}

func SkipIf(t testing.TB, expression bool, reason string) {
	t.Helper()
	if expression {
		t.Skip(reason)
	}
}

func Eventually(t testing.TB, test func() bool, every time.Duration, timeout time.Duration) {
	t.Helper()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ticker.C:
			if test() {
				return
			}
		case <-timer.C:
			t.Fatalf("timeout on eventually: %v", timeout)
		}
	}
}

// MockWriterAndOutput returns a console writing into a pipe and a function
// that closes the pipe and returns everything written so far.
func MockWriterAndOutput() (*color.Console, func() string) {
	r, w, _ := os.Pipe()
	console := color.NewConsole(w)
	return console, func() string {
		_ = w.Close()
		var b bytes.Buffer
		_, _ = io.Copy(&b, r)
		_ = r.Close()
		return b.String()
	}
}
