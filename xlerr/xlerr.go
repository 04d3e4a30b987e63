// Package xlerr defines the error taxonomy surfaced at every public
// boundary of this module: ParseError, IOError, SecurityError, and
// ValidationError (spec.md §7). Cell-level CellError values are data, not
// control-flow errors, and are defined in package xl instead.
package xlerr

import (
	"fmt"

	"github.com/gosheetkit/xlcore/internal/zipio"
)

// ParseError names the offending part and gives a single-sentence message.
// Produced by every part parser; never panics, never throws in the Go
// sense -- it is always returned as a plain error value.
type ParseError struct {
	Location string
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// NewParseError builds a ParseError for part location with a single
// formatted sentence.
func NewParseError(location, format string, args ...any) error {
	return &ParseError{Location: location, Message: fmt.Sprintf(format, args...)}
}

// IOError wraps a filesystem or archive-transport failure.
type IOError struct {
	Reason string
	Err    error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("io: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("io: %s", e.Reason)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIOError(reason string, err error) error {
	return &IOError{Reason: reason, Err: err}
}

// SecurityError reports a breached reader limit. Re-exported from zipio so
// callers catch one type regardless of where the check happened.
type SecurityError = zipio.SecurityError

// ValidationError reports a construction invariant violated by the caller
// (sheet-name rules, table invariants, outlineLevel range, etc).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
