package errors

import (
	stderrors "errors"
	"fmt"
)

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	if len(e.Record) == 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Input errors reported by the model and curve readers.
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidValue      = fmt.Errorf("invalid value")
	ErrInvalidCurveSize  = fmt.Errorf("curve must have 24, 48 or 96 values")
	ErrEmptyRecord       = fmt.Errorf("empty record")
	ErrInvalidModel      = fmt.Errorf("invalid model document")
)

// Error kinds of a failed model compilation.
var (
	// ErrStructural marks errors that are fatal regardless of strictness.
	ErrStructural = fmt.Errorf("structural error")
	// ErrReferential marks dangling references and out of range values that
	// lenient compilation repairs.
	ErrReferential = fmt.Errorf("referential error")
	// ErrAggregate marks errors about the model as a whole.
	ErrAggregate = fmt.Errorf("aggregate error")
)

// ModelError is the first violated constraint found while compiling a model.
// Message holds the localized text shown to the end user.
type ModelError struct {
	Kind    error
	Key     string
	Args    []any
	Message string
}

func (e *ModelError) Error() string {
	return e.Message
}

func (e *ModelError) Unwrap() error {
	return e.Kind
}

// KindName returns a short label for the error kind, used as a metric label.
func KindName(err error) string {
	switch {
	case err == nil:
		return "none"
	case stderrors.Is(err, ErrStructural):
		return "structural"
	case stderrors.Is(err, ErrReferential):
		return "referential"
	case stderrors.Is(err, ErrAggregate):
		return "aggregate"
	default:
		return "other"
	}
}

// Is and As forward to the standard library so callers importing this
// package do not need a second errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
