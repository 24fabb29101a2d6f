package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpression indicates a predicate or projector that does not compile.
	ErrInvalidExpression = errors.New("invalid expression")
	// ErrEvaluation indicates a compiled expression that failed on a record.
	ErrEvaluation = errors.New("evaluation failed")
)

func expressionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidExpression, fmt.Sprintf(format, args...))
}

func evaluationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEvaluation, fmt.Sprintf(format, args...))
}
