package period

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granular civil date (this IS a reporting-period system)
// =============================================================================

// Date is a civil calendar date with day granularity, pinned to UTC.
// All period math in this package operates on Dates, never on wall-clock
// instants; hours and time zones do not exist at this layer.
type Date struct {
	t time.Time
}

// Constructors

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an instant to its UTC calendar date.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Today returns the current date in UTC.
func Today() Date {
	return FromTime(time.Now())
}

// ParseISO parses a YYYY-MM-DD string.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Comparison

func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic

func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

// ISOWeek returns the ISO 8601 week-numbering year and week (1..53).
func (d Date) ISOWeek() (year, week int) { return d.t.ISOWeek() }

// String formats as ISO 8601 YYYY-MM-DD, the wire format for all dates.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// Compact formats as YYYYMMDD, the daily period identifier shape.
func (d Date) Compact() string { return d.t.Format("20060102") }

// =============================================================================
// DATE UTILITIES
// =============================================================================

func DaysBetween(from, to Date) int { return int(to.t.Sub(from.t).Hours() / 24) }

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}

// DaysInMonth returns the length of the given Gregorian month.
func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// mondayOfISOWeek returns the Monday that opens ISO week (year, week).
// ISO 8601 anchors week 1 on the week containing January 4.
func mondayOfISOWeek(year, week int) Date {
	jan4 := NewDate(year, time.January, 4)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	week1Monday := jan4.AddDays(1 - wd)
	return week1Monday.AddDays((week - 1) * 7)
}

// weeksInISOYear reports 52 or 53. December 28 always falls in the last
// ISO week of its year.
func weeksInISOYear(year int) int {
	_, w := NewDate(year, time.December, 28).ISOWeek()
	return w
}
