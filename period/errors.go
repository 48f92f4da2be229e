/*
errors.go - Centralized error types for the period engine

PURPOSE:
  All parsing/computation error types in one place for consistency and
  discoverability. The scanner layer wraps these with scan context.

ERROR CATEGORIES:
  1. Shape errors  - An identifier matched no known period shape
  2. Value errors  - A matched shape carried out-of-range components
  3. Type errors   - A period-type name outside the enumerated set

USAGE:
  Callers classify with errors.Is():

    if errors.Is(err, period.ErrUnrecognizedPeriod) {
        // no id shape matched; nothing to retry
    }

SEE ALSO:
  - codec.go: Returns shape and value errors
  - generator.go: Returns ErrUnsupportedPeriodType
  - analytics/errors.go: Scanner-level configuration errors
*/
package period

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a range's end precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidDate is returned when a date component is out of range
	// for its calendar month (e.g. month 13, February 30).
	ErrInvalidDate = errors.New("invalid date component")

	// ErrUnrecognizedPeriod is returned when an identifier matches no
	// known period shape.
	ErrUnrecognizedPeriod = errors.New("unrecognized period identifier")

	// ErrUnsupportedPeriodType is returned for a period-type name outside
	// the enumerated set.
	ErrUnsupportedPeriodType = errors.New("unsupported period type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports the offending endpoints of a reversed range.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// InvalidDateError reports which component of an identifier was out of range.
type InvalidDateError struct {
	ID        string
	Component string // "month", "day", "week", "quarter", "half", "bimonth", "year"
	Value     int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("period %q: %s %d out of range", e.ID, e.Component, e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// UnrecognizedPeriodError reports an identifier no shape matched.
type UnrecognizedPeriodError struct {
	ID string
}

func (e *UnrecognizedPeriodError) Error() string {
	return fmt.Sprintf("unrecognized period identifier %q", e.ID)
}

func (e *UnrecognizedPeriodError) Unwrap() error { return ErrUnrecognizedPeriod }

// UnsupportedPeriodTypeError reports a period-type name outside the set.
type UnsupportedPeriodTypeError struct {
	Name string
}

func (e *UnsupportedPeriodTypeError) Error() string {
	return fmt.Sprintf("unsupported period type %q", e.Name)
}

func (e *UnsupportedPeriodTypeError) Unwrap() error { return ErrUnsupportedPeriodType }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsUsageError returns true if the error is due to invalid caller input
// (malformed identifier, reversed range, unknown type name). These never
// succeed on retry.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrUnrecognizedPeriod) ||
		errors.Is(err, ErrUnsupportedPeriodType)
}
