package number

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Format renders a finite float64 the way a JavaScript engine prints numbers:
// integral values have no fraction, the shortest round-trip digits are used,
// and exponent notation applies below 1e-6 and from 1e21 up.
// Negative zero renders as "0". Non-finite values render as NaN, Infinity
// or -Infinity; callers that need a different policy check IsFinite first.
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent turns Go's "1e-07" into "1e-7".
func trimExponent(s string) string {
	n := len(s)
	if n >= 4 && s[n-4] == 'e' && s[n-2] == '0' {
		return s[:n-2] + s[n-1:]
	}
	return s
}

// Parse reads a numeric literal as accepted in records and expressions:
// an optional sign, decimal digits with optional fraction and exponent,
// a leading or trailing dot, a 0x hexadecimal integer, or Infinity.
func Parse(literal string) (float64, bool) {
	body := literal
	negative := false
	if body != "" && (body[0] == '-' || body[0] == '+') {
		negative = body[0] == '-'
		body = body[1:]
	}

	var (
		value float64
		err   error
	)
	switch {
	case body == "":
		return 0, false
	case body == "Infinity":
		value = math.Inf(1)
	case len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		var ok bool
		if value, ok = parseHex(body[2:]); !ok {
			return 0, false
		}
	default:
		if !isDecimal(body) {
			return 0, false
		}
		value, err = strconv.ParseFloat(body, 64)
		if err != nil && errorIsRange(err) {
			// Overflow saturates to ±Inf, underflow to zero, as in JavaScript.
			err = nil
		}
	}
	if err != nil {
		return 0, false
	}

	if negative {
		value = -value
	}
	return value, true
}

// parseHex reads hexadecimal digits of any width, rounding to the nearest
// float64 and saturating to +Inf past its range.
func parseHex(digits string) (float64, bool) {
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return 0, false
		}
	}

	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, true
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func errorIsRange(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// isDecimal rejects forms strconv accepts but JavaScript does not
// (underscores, "inf", "nan", hex floats).
func isDecimal(s string) bool {
	digits := 0
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
