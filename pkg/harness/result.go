package harness

import (
	"time"
)

// Level is the severity marker a log line was classified with when captured.
type Level int

const (
	LevelPlain Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "plain"
}

// LogLine is one captured line of combined output.
type LogLine struct {
	// Number is the 1-based position in the log.
	Number int
	// Raw is the line as written by the tool, without the line terminator.
	Raw string
	// Text is Raw with ANSI escape sequences removed.
	Text  string
	Level Level
}

// ExecutionResult is the immutable outcome of one invocation.
type ExecutionResult struct {
	id              string
	exitCode        int
	lines           []LogLine
	workingDir      string
	logFile         string
	localRepository string
	args            []string
	duration        time.Duration
}

// NewExecutionResult assembles a result outside of Harness.Execute, e.g. for
// inspecting the log of an earlier run.
func NewExecutionResult(workingDir, localRepository string, exitCode int, lines []LogLine) *ExecutionResult {
	return &ExecutionResult{
		exitCode:        exitCode,
		lines:           append([]LogLine(nil), lines...),
		workingDir:      workingDir,
		localRepository: localRepository,
	}
}

func (r *ExecutionResult) ID() string {
	return r.id
}

func (r *ExecutionResult) ExitCode() int {
	return r.exitCode
}

func (r *ExecutionResult) Succeeded() bool {
	return r.exitCode == 0
}

// Lines returns a copy of the captured log lines in temporal order.
func (r *ExecutionResult) Lines() []LogLine {
	return append([]LogLine(nil), r.lines...)
}

func (r *ExecutionResult) WorkingDir() string {
	return r.workingDir
}

func (r *ExecutionResult) LogFile() string {
	return r.logFile
}

func (r *ExecutionResult) LocalRepository() string {
	return r.localRepository
}

// Args returns a copy of the argument vector the tool was launched with.
func (r *ExecutionResult) Args() []string {
	return append([]string(nil), r.args...)
}

func (r *ExecutionResult) Duration() time.Duration {
	return r.duration
}

// Tail returns the text of the last n lines.
func (r *ExecutionResult) Tail(n int) []string {
	return tail(r.lines, n)
}

func tail(lines []LogLine, n int) []string {
	if n > len(lines) {
		n = len(lines)
	}
	out := make([]string, 0, n)
	for _, l := range lines[len(lines)-n:] {
		out = append(out, l.Text)
	}
	return out
}
