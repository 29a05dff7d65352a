package logging

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// LogWriter writes whole lines, each optionally prefixed with the time.
// Partial lines are held back until their newline arrives or Flush is called.
type LogWriter struct {
	sync.Mutex
	out      io.Writer
	clock    func() time.Time
	wantTime bool
	pending  bytes.Buffer
}

func NewLogWriter(writer io.Writer, clock func() time.Time, wantTime bool) *LogWriter {
	return &LogWriter{
		out:      writer,
		clock:    clock,
		wantTime: wantTime,
	}
}

func (lw *LogWriter) Write(buf []byte) (int, error) {
	lw.Lock()
	defer lw.Unlock()

	lw.pending.Write(buf)
	for {
		data := lw.pending.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if err := lw.writeLine(data[:i+1]); err != nil {
			return 0, err
		}
		lw.pending.Next(i + 1)
	}
	return len(buf), nil
}

// Flush writes a trailing partial line.
func (lw *LogWriter) Flush() error {
	lw.Lock()
	defer lw.Unlock()

	if lw.pending.Len() == 0 {
		return nil
	}
	err := lw.writeLine(appendMissingLineFeed(lw.pending.Bytes()))
	lw.pending.Reset()
	return err
}

func (lw *LogWriter) writeLine(line []byte) error {
	prefix := ""
	if lw.wantTime {
		prefix = lw.clock().Format(timeFmt) + " "
	}
	_, err := fmt.Fprintf(lw.out, "%s%s", prefix, line)
	return err
}

func appendMissingLineFeed(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] != '\n' {
		return append(append([]byte(nil), b...), '\n')
	}
	return b
}
