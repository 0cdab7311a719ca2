package pattern

import (
	"errors"
	"fmt"
)

// UnsupportedComponentError reports a value kind that Add cannot dispatch.
type UnsupportedComponentError struct {
	// Target names the container the caller was adding to ("BGP",
	// "Group", "Query").
	Target string

	// Kind is the Go type of the offending value.
	Kind string
}

// Error implements the error interface.
func (e *UnsupportedComponentError) Error() string {
	return fmt.Sprintf("unsupported component kind %s for %s", e.Kind, e.Target)
}

// IsUnsupportedComponent reports whether err is an UnsupportedComponentError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedComponent(err error) bool {
	var ue *UnsupportedComponentError
	return errors.As(err, &ue)
}

// UnknownPatternKindError indicates a traversal met a node outside the
// closed variant set. The sealed interface makes this unreachable in a
// correctly typed program; seeing it indicates a defect.
type UnknownPatternKindError struct {
	Kind string
}

// Error implements the error interface.
func (e *UnknownPatternKindError) Error() string {
	return fmt.Sprintf("unknown pattern kind: %s", e.Kind)
}

func unknownKind(p any) *UnknownPatternKindError {
	return &UnknownPatternKindError{Kind: fmt.Sprintf("%T", p)}
}
