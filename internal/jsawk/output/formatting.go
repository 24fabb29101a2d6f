// Package output renders values as single-line text.
package output

import (
	"errors"
	"fmt"
	"strings"
)

// OutputFormat selects the rendering of each record.
type OutputFormat int

const (
	FormatCompact OutputFormat = iota
	FormatYAML
)

// Escape selects how strings and keys are quoted in compact output.
type Escape int

const (
	// EscapeJSON applies standard JSON string escaping.
	EscapeJSON Escape = iota
	// EscapeNone embeds string contents verbatim between double quotes and
	// prints non-finite numbers as NaN/Infinity, as early jsawk releases
	// did. Output may not be valid JSON.
	EscapeNone
)

var (
	ErrInvalidFormat = errors.New("format must be one of: compact, yaml")
	ErrInvalidEscape = errors.New("escape must be one of: json, none")
)

func (f OutputFormat) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "compact"
	}
}

func (e Escape) String() string {
	switch e {
	case EscapeNone:
		return "none"
	default:
		return "json"
	}
}

// ParseFormat parses a --format value.
func ParseFormat(input string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "compact":
		return FormatCompact, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w, got: %s", ErrInvalidFormat, input)
	}
}

// ParseEscape parses an --escape value.
func ParseEscape(input string) (Escape, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "json":
		return EscapeJSON, nil
	case "none":
		return EscapeNone, nil
	default:
		return 0, fmt.Errorf("%w, got: %s", ErrInvalidEscape, input)
	}
}
