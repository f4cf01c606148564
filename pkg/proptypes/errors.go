package proptypes

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
)

// Error kinds raised while transforming a component file.
var (
	ErrUnsupportedPrimitive      = errors.New("unsupported primitive prop type")
	ErrInvalidArgumentShape      = errors.New("invalid prop type argument")
	ErrUnconvertiblePropertyType = errors.New("unconvertible prop type")
	ErrMissingFunctionIdentity   = errors.New("missing function name")
	ErrStructuralMismatch        = errors.New("structural mismatch")
)

// TransformError is a file-local failure with an optional source position.
// It unwraps to its kind so callers can match with [errors.Is].
type TransformError struct {
	Kind error
	Msg  string
	Pos  *jsast.Position
}

// NewError builds a TransformError of the given kind.
func NewError(kind error, pos *jsast.Position, format string, args ...any) *TransformError {
	return &TransformError{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Pos:  pos,
	}
}

func (e *TransformError) Error() string {
	return e.Msg
}

func (e *TransformError) Unwrap() error {
	return e.Kind
}

// SourcePosition implements [jsast.Positioned].
func (e *TransformError) SourcePosition() (jsast.Position, bool) {
	if e.Pos == nil {
		return jsast.Position{}, false
	}

	return *e.Pos, true
}
