// Package stream reads record lines from an input and writes result lines to
// an output.
package stream

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"
)

// Line is one non-blank input line with surrounding whitespace and byte
// order marks removed.
type Line struct {
	Number int
	Text   string
}

// Reader yields trimmed, non-blank lines. Line length is not bounded.
type Reader struct {
	r      *bufio.Reader
	number int
	done   bool
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next non-blank line, or io.EOF once the input is
// exhausted. A final line without a newline is still returned.
func (r *Reader) Next() (Line, error) {
	for !r.done {
		raw, err := r.r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Line{}, err
			}
			r.done = true
			if raw == "" {
				break
			}
		}

		r.number++
		text := strings.TrimFunc(raw, isTrimmed)
		if text == "" {
			continue
		}
		return Line{Number: r.number, Text: text}, nil
	}

	return Line{}, io.EOF
}

// isTrimmed matches whitespace and the byte order mark.
func isTrimmed(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}
