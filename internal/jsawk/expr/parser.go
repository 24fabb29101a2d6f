package expr

import (
	"github.com/jacoelho/jsawk/internal/jsawk/number"
	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

// recordName is the single free variable, bound to the current record.
const recordName = "$"

type node interface{}

type literalNode struct {
	value value.Value
}

type recordNode struct{}

type memberNode struct {
	target node
	key    node
}

type unaryNode struct {
	op    tokenType
	right node
}

type binaryNode struct {
	op    tokenType
	left  node
	right node
}

type conditionalNode struct {
	test      node
	then      node
	otherwise node
}

type listNode struct {
	items []node
}

type mapNode struct {
	keys   []string
	values []node
}

type callNode struct {
	name string
	fn   builtinFunc
	args []node
}

type parserState struct {
	tokens []token
	pos    int
}

func parse(input string) (node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens}
	if state.current().typ == tokenEOF {
		return nil, expressionError("expression is empty")
	}

	root, err := state.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := state.current(); tok.typ != tokenEOF {
		return nil, expressionError("unexpected %s at position %d", tok.describe(), tok.pos)
	}

	return root, nil
}

func (p *parserState) parseExpression() (node, error) {
	return p.parseConditional()
}

func (p *parserState) parseConditional() (node, error) {
	test, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.current().typ != tokenQuestion {
		return test, nil
	}
	p.advance()

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenColon); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return conditionalNode{test: test, then: then, otherwise: otherwise}, nil
}

// parseBinary parses a left-associative chain of ops over operands
// produced by next.
func (p *parserState) parseBinary(next func() (node, error), ops ...tokenType) (node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.currentIs(ops...) {
		op := p.advance().typ
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}

	return left, nil
}

func (p *parserState) parseOr() (node, error) {
	return p.parseBinary(p.parseAnd, tokenOr)
}

func (p *parserState) parseAnd() (node, error) {
	return p.parseBinary(p.parseEquality, tokenAnd)
}

func (p *parserState) parseEquality() (node, error) {
	return p.parseBinary(p.parseRelation, tokenEqual, tokenNotEqual)
}

func (p *parserState) parseRelation() (node, error) {
	return p.parseBinary(p.parseAdditive, tokenLess, tokenLessEqual, tokenGreater, tokenGreaterEqual)
}

func (p *parserState) parseAdditive() (node, error) {
	return p.parseBinary(p.parseMultiplicative, tokenPlus, tokenMinus)
}

func (p *parserState) parseMultiplicative() (node, error) {
	return p.parseBinary(p.parseUnary, tokenStar, tokenSlash, tokenPercent)
}

func (p *parserState) parseUnary() (node, error) {
	if p.currentIs(tokenNot, tokenMinus, tokenPlus) {
		op := p.advance().typ
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op, right: right}, nil
	}

	return p.parsePostfix()
}

func (p *parserState) parsePostfix() (node, error) {
	target, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current().typ {
		case tokenDot:
			p.advance()
			name := p.current()
			if !isName(name) {
				return nil, expressionError("expected field name after '.' at position %d", name.pos)
			}
			p.advance()
			target = memberNode{target: target, key: literalNode{value: value.String(name.literal)}}
		case tokenLBracket:
			p.advance()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokenRBracket); err != nil {
				return nil, err
			}
			target = memberNode{target: target, key: key}
		default:
			return target, nil
		}
	}
}

func (p *parserState) parsePrimary() (node, error) {
	tok := p.current()
	switch tok.typ {
	case tokenIdentifier:
		p.advance()
		if p.current().typ == tokenLParen {
			return p.parseCall(tok)
		}
		if tok.literal != recordName {
			return nil, expressionError("unknown variable %q at position %d", tok.literal, tok.pos)
		}
		return recordNode{}, nil
	case tokenNumber:
		p.advance()
		return literalNode{value: value.Number(tok.number)}, nil
	case tokenString:
		p.advance()
		return literalNode{value: value.String(tok.literal)}, nil
	case tokenTrue:
		p.advance()
		return literalNode{value: value.Bool(true)}, nil
	case tokenFalse:
		p.advance()
		return literalNode{value: value.Bool(false)}, nil
	case tokenNull:
		p.advance()
		return literalNode{value: value.Null()}, nil
	case tokenLBracket:
		return p.parseList()
	case tokenLBrace:
		return p.parseMap()
	case tokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().typ != tokenRParen {
			return nil, expressionError("missing closing ')' at position %d", p.current().pos)
		}
		p.advance()
		return expr, nil
	default:
		return nil, expressionError("unexpected %s at position %d", tok.describe(), tok.pos)
	}
}

func (p *parserState) parseList() (node, error) {
	p.advance() // [
	var items []node

	for p.current().typ != tokenRBracket {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.current().typ != tokenComma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(tokenRBracket); err != nil {
		return nil, err
	}
	return listNode{items: items}, nil
}

func (p *parserState) parseMap() (node, error) {
	p.advance() // {
	var out mapNode

	for p.current().typ != tokenRBrace {
		key, err := p.parseMapKey()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenColon); err != nil {
			return nil, err
		}
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		out.keys = append(out.keys, key)
		out.values = append(out.values, item)

		if p.current().typ != tokenComma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parserState) parseMapKey() (string, error) {
	tok := p.advance()
	switch {
	case tok.typ == tokenString || isWord(tok.typ):
		return tok.literal, nil
	case tok.typ == tokenNumber:
		return number.Format(tok.number), nil
	default:
		return "", expressionError("expected map key at position %d, got %s", tok.pos, tok.describe())
	}
}

func (p *parserState) parseCall(name token) (node, error) {
	b, ok := builtins[name.literal]
	if !ok {
		return nil, expressionError("unknown function %q at position %d", name.literal, name.pos)
	}

	p.advance() // (
	var args []node
	for p.current().typ != tokenRParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.current().typ != tokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}

	if len(args) != b.arity {
		return nil, expressionError("%s() takes %d argument(s), got %d at position %d", name.literal, b.arity, len(args), name.pos)
	}

	fn, err := b.bind(args)
	if err != nil {
		return nil, expressionError("%s() at position %d: %v", name.literal, name.pos, err)
	}

	return callNode{name: name.literal, fn: fn, args: args}, nil
}

func (p *parserState) expect(typ tokenType) (token, error) {
	tok := p.current()
	if tok.typ != typ {
		return token{}, expressionError("expected %s at position %d, got %s", tokenNames[typ], tok.pos, tok.describe())
	}
	return p.advance(), nil
}

func (p *parserState) currentIs(types ...tokenType) bool {
	current := p.current().typ
	for _, typ := range types {
		if current == typ {
			return true
		}
	}
	return false
}

func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF, pos: len(p.tokens)}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// isWord reports tokens spelled as identifiers.
func isWord(typ tokenType) bool {
	return typ == tokenIdentifier || typ == tokenTrue || typ == tokenFalse || typ == tokenNull
}

// isName reports tokens usable as a field name after '.'.
func isName(tok token) bool {
	if isWord(tok.typ) {
		return true
	}
	return tok.typ == tokenNumber && (tok.literal == "Infinity" || tok.literal == "NaN")
}
