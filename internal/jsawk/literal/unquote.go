package literal

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var simpleEscapes = map[byte]byte{
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
	'v': '\v',
	'0': 0,
}

// Unquote decodes the body of a quoted string literal (without its quotes)
// using JavaScript escape rules. Unknown escapes stand for the escaped
// character itself.
func Unquote(raw string) (string, bool) {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw, true
	}

	var out strings.Builder
	out.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			out.WriteByte(raw[i])
			continue
		}

		i++
		if i >= len(raw) {
			return "", false
		}

		escaped := raw[i]
		if b, ok := simpleEscapes[escaped]; ok {
			out.WriteByte(b)
			continue
		}

		switch escaped {
		case 'x':
			if i+3 > len(raw) {
				return "", false
			}
			code, err := strconv.ParseUint(raw[i+1:i+3], 16, 8)
			if err != nil {
				return "", false
			}
			out.WriteRune(rune(code))
			i += 2
		case 'u':
			r, consumed, ok := decodeUnicodeEscape(raw[i+1:])
			if !ok {
				return "", false
			}
			out.WriteRune(r)
			i += consumed
		default:
			out.WriteByte(escaped)
		}
	}

	return out.String(), true
}

// decodeUnicodeEscape reads what follows "\u": either {H...} or HHHH,
// joining a following \uHHHH low surrogate when present. It returns the
// number of bytes consumed after the 'u'.
func decodeUnicodeEscape(rest string) (rune, int, bool) {
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 2 {
			return 0, 0, false
		}
		code, err := strconv.ParseUint(rest[1:end], 16, 32)
		if err != nil || code > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(code), end + 1, true
	}

	first, ok := hex4(rest)
	if !ok {
		return 0, 0, false
	}

	if utf16.IsSurrogate(first) && len(rest) >= 10 && rest[4] == '\\' && rest[5] == 'u' {
		if second, ok := hex4(rest[6:]); ok {
			if decoded := utf16.DecodeRune(first, second); decoded != utf8.RuneError {
				return decoded, 10, true
			}
		}
	}

	return first, 4, true
}

func hex4(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	code, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(code), true
}
