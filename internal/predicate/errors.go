package predicate

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression matches every compile failure via errors.Is.
var ErrInvalidExpression = errors.New("invalid expression")

// SyntaxError describes where an expression failed to compile.
type SyntaxError struct {
	Pos     int // Byte offset into the expression
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d: %s", ErrInvalidExpression, e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidExpression
}

func syntaxError(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
