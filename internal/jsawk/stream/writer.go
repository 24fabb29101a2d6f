package stream

import (
	"bufio"
	"io"
)

// Writer writes one line per record and flushes after each so downstream
// consumers see output as it is produced.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteLine writes text followed by a newline and flushes.
func (w *Writer) WriteLine(text string) error {
	if _, err := w.w.WriteString(text); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}
