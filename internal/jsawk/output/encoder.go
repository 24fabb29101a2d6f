package output

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jacoelho/jsawk/internal/jsawk/number"
	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

const hexDigits = "0123456789abcdef"

// Encoder serializes values in a fixed format.
type Encoder struct {
	format OutputFormat
	escape Escape
}

// NewEncoder returns an encoder for the given format and escaping mode.
// The escaping mode applies to FormatCompact only.
func NewEncoder(format OutputFormat, escape Escape) *Encoder {
	return &Encoder{format: format, escape: escape}
}

// Encode renders v as a single line without a trailing newline.
func (e *Encoder) Encode(v value.Value) (string, error) {
	if e.format == FormatYAML {
		return encodeYAML(v)
	}
	return e.compact(v), nil
}

// Compact renders v with JSON string escaping.
func Compact(v value.Value) string {
	return NewEncoder(FormatCompact, EscapeJSON).compact(v)
}

func (e *Encoder) compact(v value.Value) string {
	var b strings.Builder
	e.writeValue(&b, v)
	return b.String()
}

func (e *Encoder) writeValue(b *strings.Builder, v value.Value) {
	switch v.Kind() {
	case value.KindBool:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.KindNumber:
		e.writeNumber(b, v.Number())
	case value.KindString:
		e.writeString(b, v.Str())
	case value.KindList:
		b.WriteByte('[')
		for i := range v.Len() {
			if i > 0 {
				b.WriteByte(',')
			}
			item, _ := v.Index(i)
			e.writeValue(b, item)
		}
		b.WriteByte(']')
	case value.KindMap:
		b.WriteByte('{')
		for i := range v.Len() {
			if i > 0 {
				b.WriteByte(',')
			}
			entry, _ := v.EntryAt(i)
			e.writeString(b, entry.Key)
			b.WriteByte(':')
			e.writeValue(b, entry.Value)
		}
		b.WriteByte('}')
	default:
		b.WriteString("null")
	}
}

// writeNumber prints non-finite numbers as null unless escaping is off.
func (e *Encoder) writeNumber(b *strings.Builder, f float64) {
	if !number.IsFinite(f) && e.escape == EscapeJSON {
		b.WriteString("null")
		return
	}
	b.WriteString(number.Format(f))
}

func (e *Encoder) writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	if e.escape == EscapeNone {
		b.WriteString(s)
	} else {
		writeEscaped(b, s)
	}
	b.WriteByte('"')
}

func writeEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[r>>4])
				b.WriteByte(hexDigits[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
}

func encodeYAML(v value.Value) (string, error) {
	payload, err := yaml.MarshalWithOptions(yamlValue(v), yaml.Flow(true))
	if err != nil {
		return "", fmt.Errorf("encode YAML: %w", err)
	}
	return string(bytes.TrimRight(payload, "\n")), nil
}

// yamlValue maps v onto types go-yaml encodes in order: maps become
// MapSlice and integral numbers become int64 so they print without a
// fraction.
func yamlValue(v value.Value) any {
	switch v.Kind() {
	case value.KindBool:
		return v.Bool()
	case value.KindNumber:
		f := v.Number()
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case value.KindString:
		return yamlString(v.Str())
	case value.KindList:
		items := make([]any, v.Len())
		for i := range items {
			item, _ := v.Index(i)
			items[i] = yamlValue(item)
		}
		return items
	case value.KindMap:
		slice := make(yaml.MapSlice, v.Len())
		for i := range slice {
			entry, _ := v.EntryAt(i)
			slice[i] = yaml.MapItem{Key: yamlString(entry.Key), Value: yamlValue(entry.Value)}
		}
		return slice
	default:
		return nil
	}
}

// quotedScalar is a string go-yaml would otherwise write as a multi-line
// block scalar. It is emitted double-quoted so each record stays on one line.
type quotedScalar string

func (q quotedScalar) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(q))), nil
}

func yamlString(s string) any {
	if strings.ContainsFunc(s, breaksLine) {
		return quotedScalar(s)
	}
	return s
}

// breaksLine reports runes that YAML treats as line breaks or that have no
// plain representation.
func breaksLine(r rune) bool {
	return r < 0x20 || r == 0x7f || r == '\u0085' || r == '\u2028' || r == '\u2029'
}
