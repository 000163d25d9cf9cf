package scanner

import (
	"errors"
	"fmt"

	"github.com/shadanan/mathmate/pkg/scope"
)

// Recoverable conditions reported as warnings at end of input.
var (
	// ErrUnterminatedLiteral reports a string or comment still open at end
	// of input.
	ErrUnterminatedLiteral = errors.New("unterminated literal")

	// ErrUnclosedBracket reports brackets still open at end of input.
	ErrUnclosedBracket = errors.New("unclosed bracket")
)

// ErrMismatchedBracket reports a closer whose family differs from the
// innermost open bracket, including a single ']' against an open "[[".
// It wraps scope.ErrScopeUnderflow: the closer has no matching scope.
var ErrMismatchedBracket = fmt.Errorf("mismatched bracket: %w", scope.ErrScopeUnderflow)

// PosError attaches a document offset to an error.
type PosError struct {
	Offset int
	Err    error
}

func (e *PosError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *PosError) Unwrap() error {
	return e.Err
}
