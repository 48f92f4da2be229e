/*
calendars.go - Calendar conversion adapter

PURPOSE:
  Maps the server-announced calendar id to civil-calendar arithmetic. The
  ISO 8601 / Gregorian / Buddhist family shares Gregorian arithmetic; the
  Ethiopian, Coptic, Islamic and Persian calendars delegate to an injected
  Converter capability.

TOTAL FALLBACK:
  This component never fails. An unknown calendar id, or a non-Gregorian
  id with no Converter registered, silently degrades to Gregorian
  arithmetic on the same year labels. That is a documented approximation,
  not an error: year windows stay usable, only their boundaries shift.

YEAR ENDS:
  A non-Gregorian year's last day is always computed as the start of the
  next year minus one day, never by a fixed day count; these calendars
  have leap-affected year lengths.

SEE ALSO:
  - convert: The shipped Converter implementations
  - period/generator.go: The CalendarAdapter contract this satisfies
*/
package calendars

import (
	"strings"

	"github.com/warp/period-engine/period"
)

// =============================================================================
// CALENDAR ID
// =============================================================================

// ID tags a civil calendar as announced by the system-info endpoint.
type ID string

const (
	ISO8601   ID = "iso8601"
	Gregorian ID = "gregorian"
	Buddhist  ID = "buddhist"
	Ethiopian ID = "ethiopian"
	Coptic    ID = "coptic"
	Islamic   ID = "islamic"
	Persian   ID = "persian"
)

// ParseID normalizes a server calendar string. Unknown values map to
// ISO8601 so downstream math never fails on an unrecognized calendar.
func ParseID(s string) ID {
	switch ID(strings.ToLower(strings.TrimSpace(s))) {
	case Gregorian:
		return Gregorian
	case Buddhist:
		return Buddhist
	case Ethiopian:
		return Ethiopian
	case Coptic:
		return Coptic
	case Islamic:
		return Islamic
	case Persian, "jalali":
		return Persian
	default:
		return ISO8601
	}
}

// GregorianFamily reports whether the id shares Gregorian arithmetic.
func (id ID) GregorianFamily() bool {
	switch id {
	case ISO8601, Gregorian, Buddhist:
		return true
	default:
		return false
	}
}

// =============================================================================
// CONVERTER CAPABILITY
// =============================================================================

// Converter supplies day-accurate arithmetic for one non-Gregorian
// calendar. Implementations are pure and total: out-of-range components
// normalize rather than fail, matching time.Date semantics.
type Converter interface {
	// ToGregorian converts calendar components to the Gregorian date.
	ToGregorian(year, month, day int) period.Date

	// FromGregorian converts a Gregorian date to calendar components.
	FromGregorian(d period.Date) (year, month, day int)

	// MonthsInYear returns the month count of the labeled year.
	MonthsInYear(year int) int
}

// Registry maps calendar ids to their Converter. A nil Registry carries no
// capabilities; every non-Gregorian calendar then degrades to Gregorian.
type Registry map[ID]Converter

// =============================================================================
// ADAPTER
// =============================================================================

// Adapter binds one calendar id to its arithmetic and satisfies
// period.CalendarAdapter. The zero value behaves as ISO 8601.
type Adapter struct {
	id   ID
	conv Converter // nil for the Gregorian family or a missing capability
}

// NewAdapter resolves the id against the registry. Gregorian-family ids
// ignore the registry; non-Gregorian ids without a registered Converter
// fall back to Gregorian arithmetic.
func NewAdapter(id ID, reg Registry) Adapter {
	if id.GregorianFamily() {
		return Adapter{id: id}
	}
	return Adapter{id: id, conv: reg[id]}
}

// Calendar returns the adapter's calendar id (the requested one, even
// when arithmetic has fallen back to Gregorian).
func (a Adapter) Calendar() ID { return a.id }

// GregorianFamily reports whether period identifiers are printable under
// this adapter. It follows the declared calendar, not the arithmetic:
// a non-Gregorian calendar in fallback mode computes Gregorian windows
// but still has no canonical identifier for them.
func (a Adapter) GregorianFamily() bool { return a.id.GregorianFamily() }

func (a Adapter) ToGregorian(year, month, day int) period.Date {
	if a.conv == nil {
		return period.GregorianCalendar{}.ToGregorian(year, month, day)
	}
	return a.conv.ToGregorian(year, month, day)
}

func (a Adapter) FromGregorian(d period.Date) (int, int, int) {
	if a.conv == nil {
		return period.GregorianCalendar{}.FromGregorian(d)
	}
	return a.conv.FromGregorian(d)
}

func (a Adapter) MonthsInYear(yearLabel int) int {
	if a.conv == nil {
		return 12
	}
	return a.conv.MonthsInYear(yearLabel)
}

// YearBounds returns the labeled calendar year expressed as Gregorian
// dates. The end is the eve of the following year's first day.
func (a Adapter) YearBounds(yearLabel int) period.DateRange {
	if a.conv == nil {
		return period.GregorianCalendar{}.YearBounds(yearLabel)
	}
	start := a.conv.ToGregorian(yearLabel, 1, 1)
	end := a.conv.ToGregorian(yearLabel+1, 1, 1).AddDays(-1)
	return period.DateRange{Start: start, End: end}
}

// CurrentYearLabel returns the calendar year containing today and its
// Gregorian bounds.
func (a Adapter) CurrentYearLabel(today period.Date) (int, period.DateRange) {
	if a.conv == nil {
		return period.GregorianCalendar{}.CurrentYearLabel(today)
	}
	label, _, _ := a.conv.FromGregorian(today)
	return label, a.YearBounds(label)
}
