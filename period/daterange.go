package period

// =============================================================================
// DATE RANGE - The core concept for period boundaries
// =============================================================================

// DateRange is a closed interval [Start, End] of calendar dates, both
// inclusive. A period identifier always resolves to a DateRange; under
// non-Gregorian calendars the range is the only authoritative form.
type DateRange struct {
	Start Date
	End   Date
}

// NewDateRange validates that End does not precede Start.
func NewDateRange(start, end Date) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, &InvalidRangeError{Start: start, End: end}
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains returns true if the date is within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns the number of days in the range, endpoints inclusive.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// String returns a string representation of the range.
func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
