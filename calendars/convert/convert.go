/*
convert.go - Calendrical conversion capability

PURPOSE:
  Ships the Converter implementations for the four non-Gregorian calendars
  the adapter can be asked for: arithmetic Ethiopian and Coptic, tabular
  Islamic, and arithmetic Persian (Jalali). Conversion runs through fixed
  day numbers (Rata Die: day 1 = 0001-01-01 proleptic Gregorian).

ACCURACY:
  The Islamic calendar here is the tabular (arithmetic) one; observational
  servers may differ by a day around month boundaries. The Persian
  calendar uses the 2820-year arithmetic cycle, which agrees with the
  astronomical calendar throughout the current era.

USAGE:
  adapter := calendars.NewAdapter(calendars.ParseID(info.Calendar), convert.All())

SEE ALSO:
  - ethiopic.go, islamic.go, persian.go: Per-calendar arithmetic
  - calendars.go: The Registry these plug into
*/
package convert

import (
	"time"

	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/period"
)

// All returns a registry carrying every shipped converter.
func All() calendars.Registry {
	return calendars.Registry{
		calendars.Ethiopian: Ethiopian(),
		calendars.Coptic:    Coptic(),
		calendars.Islamic:   Islamic(),
		calendars.Persian:   Persian(),
	}
}

// =============================================================================
// FIXED DAY NUMBERS (Rata Die)
// =============================================================================

// rdAnchor is RD 730120 (2000-01-01); Date arithmetic from a modern
// anchor avoids duration overflow on multi-millennium spans.
var rdAnchor = period.NewDate(2000, time.January, 1)

const rdAnchorDay = 730120

func dateFromRD(rd int) period.Date {
	return rdAnchor.AddDays(rd - rdAnchorDay)
}

// gregorianRD computes the fixed day number arithmetically; time.Duration
// cannot span the calendar epochs involved.
func gregorianRD(y, m, d int) int {
	yp := y - 1
	n := 365*yp + floorDiv(yp, 4) - floorDiv(yp, 100) + floorDiv(yp, 400) + (367*m-362)/12 + d
	if m > 2 {
		if gregorianLeap(y) {
			n--
		} else {
			n -= 2
		}
	}
	return n
}

func rdFromDate(d period.Date) int {
	return gregorianRD(d.Year(), int(d.Month()), d.Day())
}

func gregorianLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - b*floorDiv(a, b)
}

func ceilDiv(a, b int) int {
	return floorDiv(a+b-1, b)
}
