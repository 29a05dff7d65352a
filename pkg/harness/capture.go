package harness

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"sync"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// Classifier assigns a Level to a log line based on the markers in its
// ANSI-stripped text. An error marker anywhere in the line makes it an error
// line; otherwise the earliest marker decides, so timestamp or thread
// prefixes do not hide the level.
type Classifier struct {
	markers []levelMarker
}

type levelMarker struct {
	marker string
	level  Level
}

func NewClassifier(profile Profile) Classifier {
	var c Classifier
	add := func(markers []string, level Level) {
		for _, m := range markers {
			c.markers = append(c.markers, levelMarker{marker: m, level: level})
		}
	}
	add(profile.ErrorMarkers, LevelError)
	add(profile.WarnMarkers, LevelWarn)
	add(profile.InfoMarkers, LevelInfo)
	add(profile.DebugMarkers, LevelDebug)
	return c
}

func (c Classifier) Classify(text string) Level {
	level, at := LevelPlain, -1
	for _, m := range c.markers {
		i := strings.Index(text, m.marker)
		if i < 0 {
			continue
		}
		if m.level == LevelError {
			return LevelError
		}
		if at < 0 || i < at {
			level, at = m.level, i
		}
	}
	return level
}

// Line builds a classified LogLine from raw output.
func (c Classifier) Line(number int, raw string) LogLine {
	text := StripANSI(raw)
	return LogLine{Number: number, Raw: raw, Text: text, Level: c.Classify(text)}
}

// ParseLog splits a captured log into classified lines.
func (c Classifier) ParseLog(data []byte) []LogLine {
	var lines []LogLine
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		var raw []byte
		if i < 0 {
			raw, data = data, nil
		} else {
			raw, data = data[:i], data[i+1:]
		}
		lines = append(lines, c.Line(len(lines)+1, string(bytes.TrimSuffix(raw, []byte("\r")))))
	}
	return lines
}

// capture receives the combined output of one invocation. Bytes are written
// through to the log file as they arrive and split into classified lines.
type capture struct {
	sync.Mutex
	out        io.Writer
	classifier Classifier
	pending    bytes.Buffer
	lines      []LogLine
	written    uint64
	closed     bool
	err        error
}

func newCapture(out io.Writer, classifier Classifier) *capture {
	return &capture{out: out, classifier: classifier}
}

func (c *capture) Write(p []byte) (int, error) {
	c.Lock()
	defer c.Unlock()

	if c.closed {
		// late writes from an abandoned in-process build are dropped
		return len(p), nil
	}

	if c.err == nil {
		if _, err := c.out.Write(p); err != nil {
			c.err = err
		}
	}
	c.written += uint64(len(p))

	c.pending.Write(p)
	for {
		buf := c.pending.Bytes()
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		c.addLine(buf[:i])
		c.pending.Next(i + 1)
	}
	return len(p), nil
}

func (c *capture) addLine(raw []byte) {
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	c.lines = append(c.lines, c.classifier.Line(len(c.lines)+1, string(raw)))
}

// close flushes a trailing partial line and stops accepting output.
func (c *capture) close() ([]LogLine, uint64, error) {
	c.Lock()
	defer c.Unlock()

	if !c.closed {
		if c.pending.Len() > 0 {
			c.addLine(c.pending.Bytes())
			c.pending.Reset()
		}
		c.closed = true
	}
	return c.lines, c.written, c.err
}
