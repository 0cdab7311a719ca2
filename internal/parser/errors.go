package parser

import (
	"errors"
	"fmt"
)

// ParseError reports input that does not match the grammar. Parsing is
// all-or-nothing: the error carries the offending position and nearby
// text, and the caller decides whether to retry with corrected input.
type ParseError struct {
	// Offset is the byte position where recognition failed.
	Offset int

	// Near holds a short excerpt of the input at the failure point.
	Near string

	// Message describes what the grammar expected.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("parse error at offset %d near %q: %s", e.Offset, e.Near, e.Message)
}

// IsParseError reports whether err is a ParseError.
// Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// GroupingValidationError reports a projected variable that a GROUP BY
// query neither groups nor aggregates. Raised at tree-construction time,
// after grammar recognition succeeds.
type GroupingValidationError struct {
	// Variable is the offending projection variable, sigil included.
	Variable string
}

// Error implements the error interface.
func (e *GroupingValidationError) Error() string {
	return fmt.Sprintf("non-group-key variable in SELECT: %s", e.Variable)
}

// IsGroupingValidationError reports whether err is a GroupingValidationError.
// Uses errors.As to handle wrapped errors.
func IsGroupingValidationError(err error) bool {
	var ge *GroupingValidationError
	return errors.As(err, &ge)
}
