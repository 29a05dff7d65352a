package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvocationConsumed is returned when an invocation is executed twice.
	ErrInvocationConsumed = errors.New("invocation has already been executed")

	// ErrNoLocalRepository is returned when an invocation does not name a local
	// repository. The harness never falls back to a shared default.
	ErrNoLocalRepository = errors.New("invocation has no local repository")

	// ErrNoWorkingDir is returned when an invocation has no working directory.
	ErrNoWorkingDir = errors.New("invocation has no working directory")
)

// ParseError reports a malformed argument file or thread count.
type ParseError struct {
	Source string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("parsing %s: %s", e.Source, e.Reason)
}

// LaunchError reports that the build tool could not be started.
type LaunchError struct {
	Executable string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %s", e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExecutionFailure reports a build that exited with a non-zero code. The
// result returned alongside it holds the full log.
type ExecutionFailure struct {
	ExitCode int
	LogFile  string
	Excerpt  []string
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("build exited with code %d (log: %s)%s", e.ExitCode, e.LogFile, formatExcerpt(e.Excerpt))
}

// TimeoutError reports a build that did not finish within its time limit.
// The process tree has been terminated by the time it is returned.
type TimeoutError struct {
	Limit   time.Duration
	LogFile string
	Excerpt []string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("build did not finish within %s (log: %s)%s", e.Limit, e.LogFile, formatExcerpt(e.Excerpt))
}

// Timeout lets callers detect timeouts through an interface check.
func (e *TimeoutError) Timeout() bool {
	return true
}

func formatExcerpt(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "\n  " + strings.Join(lines, "\n  ")
}
