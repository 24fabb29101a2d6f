// Package expr compiles the predicate and projector of a jsawk invocation.
//
// Expressions are parsed into a small tree and interpreted directly over
// value.Value. The only free variable is $, the current record. Nothing is
// ever handed to a general-purpose evaluator.
package expr

import (
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

// Expression is a compiled expression body.
type Expression struct {
	source string
	root   node
}

// Parse compiles a single expression body.
func Parse(source string) (*Expression, error) {
	root, err := parse(source)
	if err != nil {
		return nil, err
	}
	return &Expression{source: source, root: root}, nil
}

// Eval evaluates the expression with $ bound to record.
func (e *Expression) Eval(record value.Value) (value.Value, error) {
	return evaluate(e.root, record)
}

// String returns the expression source.
func (e *Expression) String() string {
	return e.source
}

// Program is the compiled predicate/projector pair. A nil predicate admits
// every record and a nil projector is the identity.
type Program struct {
	predicate *Expression
	projector *Expression
}

// Compile splits text on its delimiter and compiles both halves.
//
// Text shorter than two characters yields the default program. Otherwise the
// first character is the delimiter: text up to its next occurrence is the
// predicate and the rest is the projector. Without a second delimiter the
// whole remainder is the predicate and the projector is the identity. A
// blank body is present but returns nothing, so it evaluates to null: a
// blank predicate admits no record and a blank projector yields null.
func Compile(text string) (*Program, error) {
	if utf8.RuneCountInString(text) < 2 {
		return &Program{}, nil
	}

	predicateSource, projectorSource := Split(text)
	_, size := utf8.DecodeRuneInString(text)
	hasProjector := strings.Contains(text[size:], text[:size])

	var (
		program Program
		err     error
	)
	if program.predicate, err = compileBody(predicateSource); err != nil {
		return nil, err
	}
	if hasProjector {
		if program.projector, err = compileBody(projectorSource); err != nil {
			return nil, err
		}
	}

	return &program, nil
}

func compileBody(source string) (*Expression, error) {
	if strings.TrimSpace(source) == "" {
		return &Expression{source: source, root: literalNode{value: value.Null()}}, nil
	}
	return Parse(source)
}

// Split returns the predicate and projector sources encoded in text.
func Split(text string) (predicate string, projector string) {
	if utf8.RuneCountInString(text) < 2 {
		return "", ""
	}

	_, size := utf8.DecodeRuneInString(text)
	delimiter, rest := text[:size], text[size:]

	end := strings.Index(rest, delimiter)
	if end < 0 {
		return rest, ""
	}
	return rest[:end], rest[end+size:]
}

// Test applies the predicate.
func (p *Program) Test(record value.Value) (bool, error) {
	if p.predicate == nil {
		return true, nil
	}

	result, err := p.predicate.Eval(record)
	if err != nil {
		return false, err
	}
	return result.Truthy(), nil
}

// Project applies the projector.
func (p *Program) Project(record value.Value) (value.Value, error) {
	if p.projector == nil {
		return record, nil
	}
	return p.projector.Eval(record)
}

// PredicateSource returns the predicate body. ok is false for the default
// predicate.
func (p *Program) PredicateSource() (source string, ok bool) {
	if p.predicate == nil {
		return "", false
	}
	return p.predicate.String(), true
}

// ProjectorSource returns the projector body. ok is false for the identity.
func (p *Program) ProjectorSource() (source string, ok bool) {
	if p.projector == nil {
		return "", false
	}
	return p.projector.String(), true
}
