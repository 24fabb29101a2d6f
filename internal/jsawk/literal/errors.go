package literal

import (
	"errors"
	"fmt"
)

// ErrSyntax indicates a record line that does not match the literal grammar.
var ErrSyntax = errors.New("invalid record syntax")

func syntaxError(offset int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, offset, fmt.Sprintf(format, args...))
}
