package expr

import (
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/jacoelho/jsawk/internal/jsawk/literal"
	"github.com/jacoelho/jsawk/internal/jsawk/number"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdentifier
	tokenNumber
	tokenString
	tokenTrue
	tokenFalse
	tokenNull
	tokenEqual
	tokenNotEqual
	tokenLess
	tokenLessEqual
	tokenGreater
	tokenGreaterEqual
	tokenAnd
	tokenOr
	tokenNot
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenQuestion
	tokenColon
	tokenComma
	tokenDot
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenLBrace
	tokenRBrace
)

var tokenNames = map[tokenType]string{
	tokenEOF:          "end of expression",
	tokenEqual:        "'=='",
	tokenNotEqual:     "'!='",
	tokenLess:         "'<'",
	tokenLessEqual:    "'<='",
	tokenGreater:      "'>'",
	tokenGreaterEqual: "'>='",
	tokenAnd:          "'&&'",
	tokenOr:           "'||'",
	tokenNot:          "'!'",
	tokenPlus:         "'+'",
	tokenMinus:        "'-'",
	tokenStar:         "'*'",
	tokenSlash:        "'/'",
	tokenPercent:      "'%'",
	tokenQuestion:     "'?'",
	tokenColon:        "':'",
	tokenComma:        "','",
	tokenDot:          "'.'",
	tokenLParen:       "'('",
	tokenRParen:       "')'",
	tokenLBracket:     "'['",
	tokenRBracket:     "']'",
	tokenLBrace:       "'{'",
	tokenRBrace:       "'}'",
}

type token struct {
	typ     tokenType
	literal string
	number  float64
	pos     int
}

// describe names a token for error messages.
func (t token) describe() string {
	switch t.typ {
	case tokenIdentifier, tokenTrue, tokenFalse, tokenNull:
		return "'" + t.literal + "'"
	case tokenNumber:
		return "number " + t.literal
	case tokenString:
		return "string"
	}
	if name, ok := tokenNames[t.typ]; ok {
		return name
	}
	return "token"
}

// operators maps punctuation to tokens, longest spellings first.
var operators = []struct {
	text string
	typ  tokenType
}{
	{"===", tokenEqual},
	{"!==", tokenNotEqual},
	{"==", tokenEqual},
	{"!=", tokenNotEqual},
	{"<=", tokenLessEqual},
	{">=", tokenGreaterEqual},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"<", tokenLess},
	{">", tokenGreater},
	{"!", tokenNot},
	{"+", tokenPlus},
	{"-", tokenMinus},
	{"*", tokenStar},
	{"/", tokenSlash},
	{"%", tokenPercent},
	{"?", tokenQuestion},
	{":", tokenColon},
	{",", tokenComma},
	{".", tokenDot},
	{"(", tokenLParen},
	{")", tokenRParen},
	{"[", tokenLBracket},
	{"]", tokenRBracket},
	{"{", tokenLBrace},
	{"}", tokenRBrace},
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if unicode.IsSpace(r) {
			pos += size
			continue
		}

		if isIdentifierStart(r) {
			start := pos
			pos += size
			for pos < len(input) {
				next, nextSize := utf8.DecodeRuneInString(input[pos:])
				if !isIdentifierPart(next) {
					break
				}
				pos += nextSize
			}
			tokens = append(tokens, wordToken(input[start:pos], start))
			continue
		}

		if isNumberStart(input, pos) {
			numberToken, nextPos, err := lexNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, numberToken)
			pos = nextPos
			continue
		}

		if input[pos] == '\'' || input[pos] == '"' {
			text, nextPos, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: text, pos: pos})
			pos = nextPos
			continue
		}

		matched := false
		for _, op := range operators {
			if len(input)-pos >= len(op.text) && input[pos:pos+len(op.text)] == op.text {
				tokens = append(tokens, token{typ: op.typ, literal: op.text, pos: pos})
				pos += len(op.text)
				matched = true
				break
			}
		}
		if !matched {
			return nil, expressionError("unexpected character %q at position %d", r, pos)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

func wordToken(word string, pos int) token {
	tok := token{typ: tokenIdentifier, literal: word, pos: pos}
	switch word {
	case "true":
		tok.typ = tokenTrue
	case "false":
		tok.typ = tokenFalse
	case "null", "undefined":
		tok.typ = tokenNull
	case "Infinity":
		tok.typ = tokenNumber
		tok.number = math.Inf(1)
	case "NaN":
		tok.typ = tokenNumber
		tok.number = math.NaN()
	}
	return tok
}

func isIdentifierStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

func isNumberStart(input string, pos int) bool {
	if isDigit(input[pos]) {
		return true
	}
	return input[pos] == '.' && pos+1 < len(input) && isDigit(input[pos+1])
}

func lexNumber(input string, start int) (token, int, error) {
	pos := start
	hex := pos+1 < len(input) && input[pos] == '0' && (input[pos+1] == 'x' || input[pos+1] == 'X')

	for pos < len(input) {
		c := input[pos]
		switch {
		case isDigit(c), c == '.', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			pos++
		case !hex && (c == '+' || c == '-') && (input[pos-1] == 'e' || input[pos-1] == 'E'):
			pos++
		default:
			return finishNumber(input, start, pos)
		}
	}

	return finishNumber(input, start, pos)
}

func finishNumber(input string, start, end int) (token, int, error) {
	text := input[start:end]
	f, ok := number.Parse(text)
	if !ok {
		return token{}, 0, expressionError("invalid number %q at position %d", text, start)
	}
	return token{typ: tokenNumber, literal: text, number: f, pos: start}, end, nil
}

func lexString(input string, start int) (string, int, error) {
	quote := input[start]

	for pos := start + 1; pos < len(input); pos++ {
		switch input[pos] {
		case quote:
			text, ok := literal.Unquote(input[start+1 : pos])
			if !ok {
				return "", 0, expressionError("invalid escape sequence in string at position %d", start)
			}
			return text, pos + 1, nil
		case '\\':
			pos++
		case '\n', '\r':
			return "", 0, expressionError("unterminated string at position %d", start)
		}
	}

	return "", 0, expressionError("unterminated string at position %d", start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
