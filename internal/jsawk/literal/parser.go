// Package literal parses the permissive object-literal record syntax: JSON
// plus unquoted and numeric keys, single-quoted strings, trailing commas,
// hexadecimal numbers and the undefined, Infinity and NaN keywords.
//
// The parser only ever builds data; nothing in a record is evaluated.
package literal

import (
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/jacoelho/jsawk/internal/jsawk/number"
	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

// MaxDepth bounds List/Map nesting in a single record.
const MaxDepth = 1000

type parserState struct {
	input string
	pos   int
	depth int
}

// Parse converts one record line into a Value.
func Parse(input string) (value.Value, error) {
	p := parserState{input: input}

	p.skipSpace()
	if p.eof() {
		return value.Value{}, syntaxError(p.pos, "record is empty")
	}

	v, err := p.parseValue()
	if err != nil {
		return value.Value{}, err
	}

	p.skipSpace()
	if !p.eof() {
		return value.Value{}, syntaxError(p.pos, "unexpected %q after record", p.input[p.pos])
	}

	return v, nil
}

func (p *parserState) parseValue() (value.Value, error) {
	if p.eof() {
		return value.Value{}, syntaxError(p.pos, "unexpected end of record")
	}

	switch c := p.input[p.pos]; {
	case c == '{':
		return p.parseMap()
	case c == '[':
		return p.parseList()
	case c == '"' || c == '\'':
		s, err := p.parseString()
		if err != nil {
			return value.Value{}, err
		}
		return value.String(s), nil
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		f, err := p.parseNumber()
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(f), nil
	}

	start := p.pos
	word := p.scanIdentifier()
	switch word {
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	case "null", "undefined":
		return value.Null(), nil
	case "Infinity":
		return value.Number(math.Inf(1)), nil
	case "NaN":
		return value.Number(math.NaN()), nil
	case "":
		return value.Value{}, syntaxError(start, "unexpected %q", p.input[start])
	default:
		return value.Value{}, syntaxError(start, "unexpected identifier %q", word)
	}
}

func (p *parserState) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return syntaxError(p.pos, "nesting deeper than %d", MaxDepth)
	}
	return nil
}

func (p *parserState) parseList() (value.Value, error) {
	if err := p.enter(); err != nil {
		return value.Value{}, err
	}
	defer func() { p.depth-- }()

	p.pos++ // [
	var items []value.Value

	for {
		p.skipSpace()
		if p.consume(']') {
			return value.List(items...), nil
		}

		item, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return value.List(items...), nil
		}
		return value.Value{}, p.expected("',' or ']' in list")
	}
}

func (p *parserState) parseMap() (value.Value, error) {
	if err := p.enter(); err != nil {
		return value.Value{}, err
	}
	defer func() { p.depth-- }()

	p.pos++ // {
	b := value.NewMapBuilder(4)

	for {
		p.skipSpace()
		if p.consume('}') {
			return b.Build(), nil
		}

		key, err := p.parseKey()
		if err != nil {
			return value.Value{}, err
		}

		p.skipSpace()
		if !p.consume(':') {
			return value.Value{}, p.expected("':' after key")
		}

		p.skipSpace()
		item, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		b.Set(key, item)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			return b.Build(), nil
		}
		return value.Value{}, p.expected("',' or '}' in map")
	}
}

func (p *parserState) parseKey() (string, error) {
	if p.eof() {
		return "", syntaxError(p.pos, "unexpected end of record, expected key")
	}

	c := p.input[p.pos]
	switch {
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '.' || isDigit(c):
		f, err := p.parseNumber()
		if err != nil {
			return "", err
		}
		return number.Format(f), nil
	}

	start := p.pos
	if key := p.scanIdentifier(); key != "" {
		return key, nil
	}
	return "", syntaxError(start, "unexpected %q, expected key", c)
}

// parseString reads a quoted string starting at the opening quote.
func (p *parserState) parseString() (string, error) {
	start := p.pos
	quote := p.input[p.pos]
	p.pos++

	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case quote:
			raw := p.input[start+1 : p.pos]
			p.pos++
			s, ok := Unquote(raw)
			if !ok {
				return "", syntaxError(start, "invalid escape sequence in string")
			}
			return s, nil
		case '\\':
			p.pos += 2
		default:
			p.pos++
		}
	}

	return "", syntaxError(start, "unterminated string")
}

func (p *parserState) parseNumber() (float64, error) {
	start := p.pos
	if c := p.input[p.pos]; c == '-' || c == '+' {
		p.pos++
	}

	hex := p.pos+1 < len(p.input) && p.input[p.pos] == '0' && (p.input[p.pos+1] == 'x' || p.input[p.pos+1] == 'X')
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if isDigit(c) || isLetter(c) || c == '.' {
			p.pos++
			continue
		}
		if !hex && (c == '+' || c == '-') && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}

	literal := p.input[start:p.pos]
	f, ok := number.Parse(literal)
	if !ok {
		if literal == "-NaN" || literal == "+NaN" {
			return math.NaN(), nil
		}
		return 0, syntaxError(start, "invalid number %q", literal)
	}
	return f, nil
}

// scanIdentifier consumes [A-Za-z_$][A-Za-z0-9_$]* (Unicode letters allowed)
// and returns it, or "" without consuming anything.
func (p *parserState) scanIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !isIdentifierRune(r, p.pos == start) {
			break
		}
		p.pos += size
	}
	return p.input[start:p.pos]
}

func (p *parserState) skipSpace() {
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *parserState) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parserState) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parserState) expected(what string) error {
	if p.eof() {
		return syntaxError(p.pos, "unexpected end of record, expected %s", what)
	}
	return syntaxError(p.pos, "unexpected %q, expected %s", p.input[p.pos], what)
}

func isIdentifierRune(r rune, first bool) bool {
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return true
	}
	return !first && unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
