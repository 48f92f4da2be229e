/*
codec.go - Period identifier codec

PURPOSE:
  Parses fixed-period identifiers into date ranges, generates identifiers,
  computes the succeeding identifier of the same kind, and produces sortable
  keys for chronological comparison.

IDENTIFIER GRAMMAR (all Gregorian-family):
  YYYYMMDD            Daily
  YYYYMMDD_YYYYMMDD   Explicit date range
  YYYYWww             Weekly (ISO 8601 week numbering, Monday anchor)
  YYYYMM              Monthly
  YYYYBn              BiMonthly  (n in 1..6, month pairs 1-2 .. 11-12)
  YYYYQn              Quarterly  (n in 1..4)
  YYYYSn              SixMonthly (n in 1..2, Jan-Jun / Jul-Dec)
  YYYYAprilSn         SixMonthlyApril    (Apr-Sep / Oct-Mar)
  YYYYNovSn           SixMonthlyNovember (Nov-Apr / May-Oct)
  YYYY                Yearly
  YYYYYYYY            TwoYearly (concatenated consecutive start/end years)
  YYYYApril           FinancialApril   (Apr 1 .. Mar 31)
  YYYYJuly            FinancialJuly    (Jul 1 .. Jun 30)
  YYYYOct             FinancialOct     (Oct 1 .. Sep 30)
  YYYYNov             FinancialNov     (Nov 1 .. Oct 31)

  Identifiers are self-describing by shape: parsing is lexical, no type tag
  required. The weekday-anchored weekly variants and BiWeekly have no
  printable identifier and exist only as date ranges.

COMPATIBILITY NOTE:
  The BiMonthly, SixMonthlyApril and SixMonthlyNovember label strings are a
  compatibility surface; confirm them against the target server's period-id
  contract before relying on round trips. They are defined only here.

SEE ALSO:
  - generator.go: Emits these identifiers for computed windows
  - errors.go: Error taxonomy returned by this file
*/
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// KIND - Closed set of period types
// =============================================================================

// Kind identifies a period type. The zero value is invalid.
type Kind int

const (
	KindInvalid Kind = iota
	KindDaily
	KindDateRange
	KindWeekly
	KindWeeklyWednesday
	KindWeeklyThursday
	KindWeeklySaturday
	KindWeeklySunday
	KindBiWeekly
	KindMonthly
	KindBiMonthly
	KindQuarterly
	KindSixMonthly
	KindSixMonthlyApril
	KindSixMonthlyNovember
	KindYearly
	KindTwoYearly
	KindFinancialApril
	KindFinancialJuly
	KindFinancialOct
	KindFinancialNov
)

var kindNames = map[Kind]string{
	KindDaily:              "Daily",
	KindDateRange:          "DateRange",
	KindWeekly:             "Weekly",
	KindWeeklyWednesday:    "WeeklyWednesday",
	KindWeeklyThursday:     "WeeklyThursday",
	KindWeeklySaturday:     "WeeklySaturday",
	KindWeeklySunday:       "WeeklySunday",
	KindBiWeekly:           "BiWeekly",
	KindMonthly:            "Monthly",
	KindBiMonthly:          "BiMonthly",
	KindQuarterly:          "Quarterly",
	KindSixMonthly:         "SixMonthly",
	KindSixMonthlyApril:    "SixMonthlyApril",
	KindSixMonthlyNovember: "SixMonthlyNovember",
	KindYearly:             "Yearly",
	KindTwoYearly:          "TwoYearly",
	KindFinancialApril:     "FinancialApril",
	KindFinancialJuly:      "FinancialJuly",
	KindFinancialOct:       "FinancialOct",
	KindFinancialNov:       "FinancialNov",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Invalid"
}

// KindFromName maps an external period-type name (as carried by dataset
// metadata) to its Kind. Accepts both the short and long financial labels.
func KindFromName(name string) (Kind, error) {
	switch name {
	case "Daily":
		return KindDaily, nil
	case "Weekly":
		return KindWeekly, nil
	case "WeeklyWednesday":
		return KindWeeklyWednesday, nil
	case "WeeklyThursday":
		return KindWeeklyThursday, nil
	case "WeeklySaturday":
		return KindWeeklySaturday, nil
	case "WeeklySunday":
		return KindWeeklySunday, nil
	case "BiWeekly":
		return KindBiWeekly, nil
	case "Monthly":
		return KindMonthly, nil
	case "BiMonthly":
		return KindBiMonthly, nil
	case "Quarterly":
		return KindQuarterly, nil
	case "SixMonthly":
		return KindSixMonthly, nil
	case "SixMonthlyApril":
		return KindSixMonthlyApril, nil
	case "SixMonthlyNov", "SixMonthlyNovember":
		return KindSixMonthlyNovember, nil
	case "Yearly":
		return KindYearly, nil
	case "TwoYearly":
		return KindTwoYearly, nil
	case "FinancialApril":
		return KindFinancialApril, nil
	case "FinancialJuly":
		return KindFinancialJuly, nil
	case "FinancialOct", "FinancialOctober":
		return KindFinancialOct, nil
	case "FinancialNov", "FinancialNovember":
		return KindFinancialNov, nil
	default:
		return KindInvalid, &UnsupportedPeriodTypeError{Name: name}
	}
}

// =============================================================================
// DECODED FORM - Shared by Parse, Next and SortKey
// =============================================================================

// decoded is the numeric form of an identifier. Exactly one interpretation
// exists per id; the sub field carries the month, week, quarter, half or
// bimonth ordinal depending on kind, and is 0 for year-grained kinds.
type decoded struct {
	kind Kind
	year int
	sub  int
	rng  DateRange // populated for every kind
}

// decode recognizes identifier shapes in priority order: explicit date
// range, daily, weekly, quarterly, six-monthly (April/Nov/plain),
// bi-monthly, monthly, yearly/two-yearly, financial labels.
func decode(id string) (decoded, error) {
	if id == "" {
		return decoded{}, &UnrecognizedPeriodError{ID: id}
	}

	if strings.ContainsRune(id, '_') {
		return decodeDateRange(id)
	}

	if isDigits(id) {
		switch len(id) {
		case 8:
			return decodeEightDigits(id)
		case 6:
			return decodeMonthly(id)
		case 4:
			y, _ := strconv.Atoi(id)
			return decoded{kind: KindYearly, year: y,
				rng: DateRange{Start: StartOfYear(y), End: EndOfYear(y)}}, nil
		default:
			return decoded{}, &UnrecognizedPeriodError{ID: id}
		}
	}

	// Letter-marked shapes. Order matters: the six-monthly financial
	// variants embed the financial labels as prefixes.
	switch {
	case matchMarker(id, "W"):
		return decodeWeekly(id)
	case matchMarker(id, "Q"):
		return decodeOrdinal(id, "Q", KindQuarterly, 4, "quarter")
	case matchMarker(id, "AprilS"):
		return decodeOrdinal(id, "AprilS", KindSixMonthlyApril, 2, "half")
	case matchMarker(id, "NovS"):
		return decodeOrdinal(id, "NovS", KindSixMonthlyNovember, 2, "half")
	case matchMarker(id, "S"):
		return decodeOrdinal(id, "S", KindSixMonthly, 2, "half")
	case matchMarker(id, "B"):
		return decodeOrdinal(id, "B", KindBiMonthly, 6, "bimonth")
	case matchLabel(id, "April"):
		return decodeFinancial(id, KindFinancialApril)
	case matchLabel(id, "July"):
		return decodeFinancial(id, KindFinancialJuly)
	case matchLabel(id, "Oct"):
		return decodeFinancial(id, KindFinancialOct)
	case matchLabel(id, "Nov"):
		return decodeFinancial(id, KindFinancialNov)
	default:
		return decoded{}, &UnrecognizedPeriodError{ID: id}
	}
}

// matchMarker reports whether id is YYYY<marker><digits...>.
func matchMarker(id, marker string) bool {
	return len(id) > 4+len(marker) &&
		isDigits(id[:4]) &&
		id[4:4+len(marker)] == marker &&
		isDigits(id[4+len(marker):])
}

// matchLabel reports whether id is exactly YYYY<label>.
func matchLabel(id, label string) bool {
	return len(id) == 4+len(label) && isDigits(id[:4]) && id[4:] == label
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func decodeDateRange(id string) (decoded, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 2 || len(parts[0]) != 8 || len(parts[1]) != 8 ||
		!isDigits(parts[0]) || !isDigits(parts[1]) {
		return decoded{}, &UnrecognizedPeriodError{ID: id}
	}
	start, err := parseCompactDate(id, parts[0])
	if err != nil {
		return decoded{}, err
	}
	end, err := parseCompactDate(id, parts[1])
	if err != nil {
		return decoded{}, err
	}
	rng, err := NewDateRange(start, end)
	if err != nil {
		return decoded{}, err
	}
	return decoded{kind: KindDateRange, year: start.Year(), sub: int(start.Month()), rng: rng}, nil
}

// decodeEightDigits disambiguates Daily (YYYYMMDD) from TwoYearly
// (YYYYYYYY): a two-yearly id's 5th-6th digits never form a valid month
// because the second year must be first year + 1.
func decodeEightDigits(id string) (decoded, error) {
	y1, _ := strconv.Atoi(id[:4])
	mid, _ := strconv.Atoi(id[4:6])
	if mid >= 1 && mid <= 12 {
		d, err := parseCompactDate(id, id)
		if err != nil {
			return decoded{}, err
		}
		return decoded{kind: KindDaily, year: d.Year(), sub: int(d.Month()),
			rng: DateRange{Start: d, End: d}}, nil
	}
	y2, _ := strconv.Atoi(id[4:])
	if y2 == y1+1 {
		return decoded{kind: KindTwoYearly, year: y1,
			rng: DateRange{Start: StartOfYear(y1), End: EndOfYear(y2)}}, nil
	}
	return decoded{}, &InvalidDateError{ID: id, Component: "month", Value: mid}
}

func parseCompactDate(id, s string) (Date, error) {
	y, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[4:6])
	d, _ := strconv.Atoi(s[6:8])
	if m < 1 || m > 12 {
		return Date{}, &InvalidDateError{ID: id, Component: "month", Value: m}
	}
	if d < 1 || d > DaysInMonth(y, time.Month(m)) {
		return Date{}, &InvalidDateError{ID: id, Component: "day", Value: d}
	}
	return NewDate(y, time.Month(m), d), nil
}

func decodeMonthly(id string) (decoded, error) {
	y, _ := strconv.Atoi(id[:4])
	m, _ := strconv.Atoi(id[4:6])
	if m < 1 || m > 12 {
		return decoded{}, &InvalidDateError{ID: id, Component: "month", Value: m}
	}
	return decoded{kind: KindMonthly, year: y, sub: m,
		rng: DateRange{Start: StartOfMonth(y, time.Month(m)), End: EndOfMonth(y, time.Month(m))}}, nil
}

func decodeWeekly(id string) (decoded, error) {
	y, _ := strconv.Atoi(id[:4])
	w, _ := strconv.Atoi(id[5:])
	if w < 1 || w > weeksInISOYear(y) {
		return decoded{}, &InvalidDateError{ID: id, Component: "week", Value: w}
	}
	start := mondayOfISOWeek(y, w)
	return decoded{kind: KindWeekly, year: y, sub: w,
		rng: DateRange{Start: start, End: start.AddDays(6)}}, nil
}

func decodeOrdinal(id, marker string, kind Kind, max int, component string) (decoded, error) {
	y, _ := strconv.Atoi(id[:4])
	n, _ := strconv.Atoi(id[4+len(marker):])
	if n < 1 || n > max {
		return decoded{}, &InvalidDateError{ID: id, Component: component, Value: n}
	}
	return decoded{kind: kind, year: y, sub: n, rng: ordinalRange(kind, y, n)}, nil
}

// ordinalRange maps (kind, year, ordinal) to its Gregorian window.
func ordinalRange(kind Kind, y, n int) DateRange {
	switch kind {
	case KindQuarterly:
		return monthSpan(y, 3*n-2, 3)
	case KindBiMonthly:
		return monthSpan(y, 2*n-1, 2)
	case KindSixMonthly:
		return monthSpan(y, 6*n-5, 6)
	case KindSixMonthlyApril:
		return monthSpan(y, 4+6*(n-1), 6)
	case KindSixMonthlyNovember:
		return monthSpan(y, 11+6*(n-1), 6)
	default:
		return DateRange{}
	}
}

// monthSpan returns the range covering `count` Gregorian months starting at
// month index `m1` of year y; m1 may exceed 12 and carries into y+1.
func monthSpan(y, m1, count int) DateRange {
	start := NewDate(y, time.Month(m1), 1)
	end := NewDate(y, time.Month(m1+count), 1).AddDays(-1)
	return DateRange{Start: start, End: end}
}

func decodeFinancial(id string, kind Kind) (decoded, error) {
	y, _ := strconv.Atoi(id[:4])
	return decoded{kind: kind, year: y, rng: monthSpan(y, int(financialAnchor(kind)), 12)}, nil
}

// financialAnchor returns the month a financial year opens on.
func financialAnchor(kind Kind) time.Month {
	switch kind {
	case KindFinancialApril:
		return time.April
	case KindFinancialJuly:
		return time.July
	case KindFinancialOct:
		return time.October
	default:
		return time.November
	}
}

// =============================================================================
// PUBLIC CODEC OPERATIONS
// =============================================================================

// KindOf reports the kind an identifier's shape denotes.
func KindOf(id string) (Kind, error) {
	dec, err := decode(id)
	if err != nil {
		return KindInvalid, err
	}
	return dec.kind, nil
}

// Parse resolves a period identifier to its closed date range.
func Parse(id string) (DateRange, error) {
	dec, err := decode(id)
	if err != nil {
		return DateRange{}, err
	}
	return dec.rng, nil
}

// Next returns the immediately following identifier of the same kind.
// Rollovers are handled per kind; weekly succession follows actual ISO
// week numbering (52/53-week years), never a fixed modulo.
func Next(id string) (string, error) {
	dec, err := decode(id)
	if err != nil {
		return "", err
	}
	switch dec.kind {
	case KindDaily:
		return dec.rng.Start.AddDays(1).Compact(), nil
	case KindDateRange:
		// Contiguous block of the same length, as in generic period math.
		length := dec.rng.Days()
		start := dec.rng.End.AddDays(1)
		return formatDateRange(start, start.AddDays(length-1)), nil
	case KindWeekly:
		nextMonday := dec.rng.Start.AddDays(7)
		iy, iw := nextMonday.ISOWeek()
		return formatWeekly(iy, iw), nil
	case KindMonthly:
		if dec.sub == 12 {
			return formatMonthly(dec.year+1, 1), nil
		}
		return formatMonthly(dec.year, dec.sub+1), nil
	case KindBiMonthly:
		return nextOrdinal(dec, "B", 6), nil
	case KindQuarterly:
		return nextOrdinal(dec, "Q", 4), nil
	case KindSixMonthly:
		return nextOrdinal(dec, "S", 2), nil
	case KindSixMonthlyApril:
		return nextOrdinal(dec, "AprilS", 2), nil
	case KindSixMonthlyNovember:
		return nextOrdinal(dec, "NovS", 2), nil
	case KindYearly:
		return formatYearly(dec.year + 1), nil
	case KindTwoYearly:
		return formatTwoYearly(dec.year + 2), nil
	case KindFinancialApril, KindFinancialJuly, KindFinancialOct, KindFinancialNov:
		return formatFinancial(dec.kind, dec.year+1), nil
	default:
		return "", &UnrecognizedPeriodError{ID: id}
	}
}

func nextOrdinal(dec decoded, marker string, max int) string {
	if dec.sub == max {
		return fmt.Sprintf("%04d%s1", dec.year+1, marker)
	}
	return fmt.Sprintf("%04d%s%d", dec.year, marker, dec.sub+1)
}

// Key orders period identifiers chronologically: (year, subUnit, day).
// Distinct identifiers of the same coarse-grained kind never collide.
type Key [3]int

func (k Key) Less(other Key) bool {
	for i := 0; i < 3; i++ {
		if k[i] != other[i] {
			return k[i] < other[i]
		}
	}
	return false
}

// SortKey returns the chronological ordering key for an identifier.
func SortKey(id string) (Key, error) {
	dec, err := decode(id)
	if err != nil {
		return Key{}, err
	}
	switch dec.kind {
	case KindDaily, KindDateRange:
		return Key{dec.rng.Start.Year(), int(dec.rng.Start.Month()), dec.rng.Start.Day()}, nil
	default:
		return Key{dec.year, dec.sub, 0}, nil
	}
}

// =============================================================================
// IDENTIFIER FORMATTING
// =============================================================================

func formatDaily(d Date) string { return d.Compact() }

func formatDateRange(start, end Date) string {
	return start.Compact() + "_" + end.Compact()
}

func formatWeekly(isoYear, week int) string {
	return fmt.Sprintf("%04dW%02d", isoYear, week)
}

func formatMonthly(y, m int) string { return fmt.Sprintf("%04d%02d", y, m) }

func formatYearly(y int) string { return fmt.Sprintf("%04d", y) }

func formatTwoYearly(startYear int) string {
	return fmt.Sprintf("%04d%04d", startYear, startYear+1)
}

func formatFinancial(kind Kind, y int) string {
	switch kind {
	case KindFinancialApril:
		return fmt.Sprintf("%04dApril", y)
	case KindFinancialJuly:
		return fmt.Sprintf("%04dJuly", y)
	case KindFinancialOct:
		return fmt.Sprintf("%04dOct", y)
	default:
		return fmt.Sprintf("%04dNov", y)
	}
}

func formatOrdinal(kind Kind, y, n int) string {
	switch kind {
	case KindQuarterly:
		return fmt.Sprintf("%04dQ%d", y, n)
	case KindBiMonthly:
		return fmt.Sprintf("%04dB%d", y, n)
	case KindSixMonthly:
		return fmt.Sprintf("%04dS%d", y, n)
	case KindSixMonthlyApril:
		return fmt.Sprintf("%04dAprilS%d", y, n)
	default:
		return fmt.Sprintf("%04dNovS%d", y, n)
	}
}
