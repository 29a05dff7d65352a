// Package logging implements the apex/log handler used by buildcheck and
// the writers that echo build output to the terminal.
package logging

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/heroku/color"

	"github.com/buildpacks/buildcheck/internal/style"
)

const timeFmt = "2006/01/02 15:04:05.000000"

var levelStrings = [...]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  "INFO",
	log.WarnLevel:  "WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

var levelColors = [...]func(string, ...interface{}) string{
	log.DebugLevel: color.HiBlackString,
	log.InfoLevel:  color.HiBlueString,
	log.WarnLevel:  color.YellowString,
	log.ErrorLevel: color.RedString,
	log.FatalLevel: color.RedString,
}

// Handler writes entries as "[time] LEVEL message key=value...". Errors and
// fatal entries go to ErrWriter when it is set.
type Handler struct {
	sync.Mutex
	Writer    io.Writer
	ErrWriter io.Writer
	WantTime  bool
	NoColor   bool
	clock     func() time.Time
}

func NewLogHandler(w io.Writer) *Handler {
	return &Handler{
		Writer: w,
		clock:  time.Now,
	}
}

func (h *Handler) formatLevel(level log.Level) string {
	s := fmt.Sprintf("%-5s", levelStrings[level])
	if h.NoColor || !color.Enabled() {
		return s
	}
	return levelColors[level]("%s", s)
}

func (h *Handler) HandleLog(e *log.Entry) error {
	h.Lock()
	defer h.Unlock()

	w := h.Writer
	if e.Level >= log.ErrorLevel && h.ErrWriter != nil {
		w = h.ErrWriter
	}

	if h.WantTime {
		_, _ = fmt.Fprintf(w, "%s ", h.clock().Format(timeFmt))
	}
	_, _ = fmt.Fprintf(w, "%s %s", h.formatLevel(e.Level), e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := name
		if !h.NoColor {
			key = style.Key(name)
		}
		_, _ = fmt.Fprintf(w, " %s=%v", key, e.Fields[name])
	}

	_, _ = fmt.Fprintln(w)
	return nil
}

// LogWithWriters is a logger that also exposes the writers it logs to, so
// raw build output can be echoed next to log entries.
type LogWithWriters struct {
	log.Logger
	handler *Handler
	out     io.Writer
	errOut  io.Writer
}

type Option func(*LogWithWriters)

// WithVerbose enables debug entries.
func WithVerbose() Option {
	return func(l *LogWithWriters) {
		l.Level = log.DebugLevel
	}
}

// WithTimestamps prefixes entries with the time reported by clock.
func WithTimestamps(clock func() time.Time) Option {
	return func(l *LogWithWriters) {
		l.handler.WantTime = true
		l.handler.clock = clock
	}
}

// WithNoColor disables colored levels and keys.
func WithNoColor() Option {
	return func(l *LogWithWriters) {
		l.handler.NoColor = true
	}
}

func NewLogWithWriters(stdout, stderr io.Writer, opts ...Option) *LogWithWriters {
	hnd := NewLogHandler(stdout)
	hnd.ErrWriter = stderr

	lw := &LogWithWriters{
		handler: hnd,
		out:     stdout,
		errOut:  stderr,
	}
	lw.Logger.Handler = hnd
	lw.Logger.Level = log.InfoLevel
	for _, opt := range opts {
		opt(lw)
	}
	return lw
}

func (lw *LogWithWriters) WantTime(f bool) {
	lw.handler.Lock()
	defer lw.handler.Unlock()
	lw.handler.WantTime = f
}

// WantQuiet drops everything below warnings.
func (lw *LogWithWriters) WantQuiet(f bool) {
	if f {
		lw.Level = log.WarnLevel
	} else if lw.Level == log.WarnLevel {
		lw.Level = log.InfoLevel
	}
}

func (lw *LogWithWriters) WantVerbose(f bool) {
	if f {
		lw.Level = log.DebugLevel
	} else if lw.Level == log.DebugLevel {
		lw.Level = log.InfoLevel
	}
}

func (lw *LogWithWriters) IsVerbose() bool {
	return lw.Level == log.DebugLevel
}

// Writer returns a writer that prefixes timestamps the same way entries are.
func (lw *LogWithWriters) Writer() io.Writer {
	return NewLogWriter(lw.out, lw.handler.clock, lw.handler.WantTime)
}

func (lw *LogWithWriters) ErrorWriter() io.Writer {
	return NewLogWriter(lw.errOut, lw.handler.clock, lw.handler.WantTime)
}
