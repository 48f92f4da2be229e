/*
generator.go - Fixed-period generator

PURPOSE:
  Computes the latest fully elapsed (closed) reporting window for a period
  type relative to a reference date. Today's own in-progress period is never
  returned.

CALENDAR AWARENESS:
  Month-grained kinds (Monthly through Financial*) are computed in the
  active civil calendar through the CalendarAdapter and converted to
  Gregorian ranges. Week-grained kinds use ISO 8601 weeks regardless of the
  system calendar. Canonical identifiers exist only under Gregorian-family
  calendars; elsewhere the returned identifier is nil and the DateRange is
  the authoritative result.

SEE ALSO:
  - codec.go: Identifier formatting shared with this file
  - calendars: The production CalendarAdapter implementation
*/
package period

import (
	"time"
)

// =============================================================================
// CALENDAR ADAPTER - Capability interface, injected by the caller
// =============================================================================

// CalendarAdapter supplies civil-calendar arithmetic for the generator.
// Implementations must be total: no method may fail. When conversion for a
// calendar is unavailable the implementation falls back to Gregorian
// arithmetic on the same labels, a documented approximation.
type CalendarAdapter interface {
	// GregorianFamily reports whether the calendar shares Gregorian
	// arithmetic (ISO 8601, Gregorian, Buddhist). Only these calendars
	// have printable period identifiers.
	GregorianFamily() bool

	// ToGregorian converts a calendar date to its Gregorian date.
	ToGregorian(year, month, day int) Date

	// FromGregorian converts a Gregorian date to calendar components.
	FromGregorian(d Date) (year, month, day int)

	// MonthsInYear returns the month count of the labeled calendar year
	// (13 for Ethiopian and Coptic, 12 otherwise).
	MonthsInYear(yearLabel int) int

	// YearBounds returns the labeled calendar year's first and last day
	// as Gregorian dates.
	YearBounds(yearLabel int) DateRange

	// CurrentYearLabel returns the calendar year containing today.
	CurrentYearLabel(today Date) (yearLabel int, bounds DateRange)
}

// GregorianCalendar is the identity adapter and the safe default when no
// calendar capability is configured.
type GregorianCalendar struct{}

func (GregorianCalendar) GregorianFamily() bool { return true }

func (GregorianCalendar) ToGregorian(year, month, day int) Date {
	return NewDate(year, time.Month(month), day)
}

func (GregorianCalendar) FromGregorian(d Date) (int, int, int) {
	return d.Year(), int(d.Month()), d.Day()
}

func (GregorianCalendar) MonthsInYear(int) int { return 12 }

func (GregorianCalendar) YearBounds(yearLabel int) DateRange {
	return DateRange{Start: StartOfYear(yearLabel), End: EndOfYear(yearLabel)}
}

func (g GregorianCalendar) CurrentYearLabel(today Date) (int, DateRange) {
	return today.Year(), g.YearBounds(today.Year())
}

// =============================================================================
// CLOSED PERIOD
// =============================================================================

// ClosedPeriod is a fully elapsed reporting window. ID is nil when the
// active calendar has no printable identifier for the window.
type ClosedPeriod struct {
	ID    *string
	Range DateRange
}

func closedWith(id string, rng DateRange, printable bool) ClosedPeriod {
	if !printable {
		return ClosedPeriod{Range: rng}
	}
	return ClosedPeriod{ID: &id, Range: rng}
}

// =============================================================================
// GENERATOR
// =============================================================================

// LatestClosedPeriod returns the most recently closed window of the given
// kind relative to today. A nil adapter means Gregorian.
func LatestClosedPeriod(kind Kind, today Date, cal CalendarAdapter) (ClosedPeriod, error) {
	if cal == nil {
		cal = GregorianCalendar{}
	}
	greg := cal.GregorianFamily()

	switch kind {
	case KindDaily:
		y := today.AddDays(-1)
		return closedWith(formatDaily(y), DateRange{Start: y, End: y}, greg), nil

	case KindWeekly:
		rng := lastClosedWeek(today, time.Monday)
		iy, iw := rng.Start.ISOWeek()
		return closedWith(formatWeekly(iy, iw), rng, greg), nil

	case KindWeeklyWednesday:
		return ClosedPeriod{Range: lastClosedWeek(today, time.Wednesday)}, nil
	case KindWeeklyThursday:
		return ClosedPeriod{Range: lastClosedWeek(today, time.Thursday)}, nil
	case KindWeeklySaturday:
		return ClosedPeriod{Range: lastClosedWeek(today, time.Saturday)}, nil
	case KindWeeklySunday:
		return ClosedPeriod{Range: lastClosedWeek(today, time.Sunday)}, nil

	case KindBiWeekly:
		return ClosedPeriod{Range: lastClosedBiWeek(today)}, nil

	case KindMonthly, KindBiMonthly, KindQuarterly, KindSixMonthly,
		KindSixMonthlyApril, KindSixMonthlyNovember:
		return latestClosedOrdinal(kind, today, cal, greg), nil

	case KindYearly:
		label, _ := cal.CurrentYearLabel(today)
		return latestClosedYearSpan(label, 1, today, cal, greg, func(y int) string {
			return formatYearly(y)
		}), nil

	case KindTwoYearly:
		label, _ := cal.CurrentYearLabel(today)
		// Blocks pair even start years: the block for label y opens at
		// y - (y mod 2).
		start := label - mod(label, 2)
		return latestClosedYearSpan(start, 2, today, cal, greg, func(y int) string {
			return formatTwoYearly(y)
		}), nil

	case KindFinancialApril, KindFinancialJuly, KindFinancialOct, KindFinancialNov:
		return latestClosedFinancial(kind, today, cal, greg), nil

	default:
		return ClosedPeriod{}, &UnsupportedPeriodTypeError{Name: kind.String()}
	}
}

// LatestClosedPeriodNamed resolves the period-type name first; it exists
// for callers holding the external metadata string.
func LatestClosedPeriodNamed(name string, today Date, cal CalendarAdapter) (ClosedPeriod, error) {
	kind, err := KindFromName(name)
	if err != nil {
		return ClosedPeriod{}, err
	}
	return LatestClosedPeriod(kind, today, cal)
}

// =============================================================================
// WEEK-GRAINED WINDOWS
// =============================================================================

// lastClosedWeek finds the closed 7-day block anchored on the given
// weekday whose end precedes today. The block opening on or before today
// always overlaps today, so the closed block is one week earlier.
func lastClosedWeek(today Date, anchor time.Weekday) DateRange {
	delta := mod(int(today.Weekday())-int(anchor), 7)
	currentStart := today.AddDays(-delta)
	return DateRange{Start: currentStart.AddDays(-7), End: currentStart.AddDays(-1)}
}

// lastClosedBiWeek aligns the last closed ISO-Monday week to odd/even week
// pairing so every block is exactly 14 days, then steps back a block if
// the aligned block still overlaps today.
func lastClosedBiWeek(today Date) DateRange {
	week := lastClosedWeek(today, time.Monday)
	start := week.Start
	if _, w := start.ISOWeek(); w%2 == 0 {
		start = start.AddDays(-7)
	}
	if !start.AddDays(13).Before(today) {
		start = start.AddDays(-14)
	}
	return DateRange{Start: start, End: start.AddDays(13)}
}

// =============================================================================
// MONTH-GRAINED WINDOWS (calendar-aware)
// =============================================================================

// candidate is one reporting window of a year label.
type candidate struct {
	year int
	sub  int
	rng  DateRange
}

// latestClosedOrdinal scans the windows of the current and two prior year
// labels and picks the latest whose end precedes today. Two prior labels
// are needed because the November-anchored halves of a label reach almost
// two years forward.
func latestClosedOrdinal(kind Kind, today Date, cal CalendarAdapter, greg bool) ClosedPeriod {
	label, _ := cal.CurrentYearLabel(today)
	best := candidate{year: -1}
	for y := label - 2; y <= label; y++ {
		for _, c := range windowsForLabel(kind, y, cal) {
			if c.rng.End.Before(today) && (best.year == -1 || best.rng.Start.Before(c.rng.Start)) {
				best = c
			}
		}
	}
	if kind == KindMonthly {
		return closedWith(formatMonthly(best.year, best.sub), best.rng, greg)
	}
	return closedWith(formatOrdinal(kind, best.year, best.sub), best.rng, greg)
}

// windowsForLabel enumerates every window of the kind inside (or anchored
// on) one calendar year label. The final sub-year window of a label closes
// at the year's last day so the epagomenal 13th month of Ethiopian and
// Coptic years is never orphaned.
func windowsForLabel(kind Kind, label int, cal CalendarAdapter) []candidate {
	months := cal.MonthsInYear(label)
	switch kind {
	case KindMonthly:
		out := make([]candidate, 0, months)
		for m := 1; m <= months; m++ {
			out = append(out, candidate{year: label, sub: m, rng: calendarMonthSpan(cal, label, m, 1, m == months)})
		}
		return out
	case KindBiMonthly:
		return ordinalWindows(cal, label, 6, 1, 2)
	case KindQuarterly:
		return ordinalWindows(cal, label, 4, 1, 3)
	case KindSixMonthly:
		return ordinalWindows(cal, label, 2, 1, 6)
	case KindSixMonthlyApril:
		return ordinalWindows(cal, label, 2, 4, 6)
	case KindSixMonthlyNovember:
		return ordinalWindows(cal, label, 2, 11, 6)
	default:
		return nil
	}
}

// ordinalWindows builds `count` consecutive windows of `span` months
// starting at anchor month. Anchored kinds (April/November halves) carry
// into the following year label; unanchored kinds close their last window
// at year end.
func ordinalWindows(cal CalendarAdapter, label, count, anchor, span int) []candidate {
	out := make([]candidate, 0, count)
	anchored := anchor != 1
	for n := 1; n <= count; n++ {
		last := !anchored && n == count
		out = append(out, candidate{
			year: label,
			sub:  n,
			rng:  calendarMonthSpan(cal, label, anchor+span*(n-1), span, last),
		})
	}
	return out
}

// calendarMonthSpan returns the Gregorian range of `span` months starting
// at month m1 of the labeled calendar year. closesYear forces the end to
// the year's final day instead of the notional next-month start.
func calendarMonthSpan(cal CalendarAdapter, label, m1, span int, closesYear bool) DateRange {
	start := cal.ToGregorian(carryMonth(cal, label, m1))
	var end Date
	if closesYear {
		end = cal.YearBounds(label).End
	} else {
		end = cal.ToGregorian(carryMonth(cal, label, m1+span)).AddDays(-1)
	}
	return DateRange{Start: start, End: end}
}

// carryMonth normalizes a month index past the year's length into the
// following year label, returning (year, month, 1).
func carryMonth(cal CalendarAdapter, year, month int) (int, int, int) {
	for month > cal.MonthsInYear(year) {
		month -= cal.MonthsInYear(year)
		year++
	}
	return year, month, 1
}

// =============================================================================
// YEAR-GRAINED WINDOWS (calendar-aware)
// =============================================================================

// latestClosedYearSpan walks `span`-year blocks back from the block that
// opens at startLabel until one ends before today.
func latestClosedYearSpan(startLabel, span int, today Date, cal CalendarAdapter, greg bool, format func(int) string) ClosedPeriod {
	for s := startLabel; ; s -= span {
		rng := DateRange{
			Start: cal.YearBounds(s).Start,
			End:   cal.YearBounds(s + span - 1).End,
		}
		if rng.End.Before(today) {
			return closedWith(format(s), rng, greg)
		}
	}
}

// latestClosedFinancial selects the most recently closed 12-month window
// anchored on the kind's month.
func latestClosedFinancial(kind Kind, today Date, cal CalendarAdapter, greg bool) ClosedPeriod {
	anchor := int(financialAnchor(kind))
	label, _ := cal.CurrentYearLabel(today)
	best := candidate{year: -1}
	for y := label - 2; y <= label; y++ {
		rng := calendarMonthSpan(cal, y, anchor, 12, false)
		if rng.End.Before(today) && (best.year == -1 || best.rng.Start.Before(rng.Start)) {
			best = candidate{year: y, rng: rng}
		}
	}
	return closedWith(formatFinancial(kind, best.year), best.rng, greg)
}

// mod is the always-positive remainder.
func mod(a, b int) int {
	return ((a % b) + b) % b
}
