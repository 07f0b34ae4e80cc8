package logging

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter wraps an io.Writer and writes a prefix at the start of every line.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	mu      sync.Mutex
	midLine bool
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer. Partial lines are passed through immediately;
// the prefix is emitted before the first byte of each new line.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	var out bytes.Buffer
	rest := p
	for len(rest) > 0 {
		if !pw.midLine {
			out.Write(pw.prefix)
			pw.midLine = true
		}
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			out.Write(rest)
			break
		}
		out.Write(rest[:i+1])
		rest = rest[i+1:]
		pw.midLine = false
	}

	if _, err := pw.writer.Write(out.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
