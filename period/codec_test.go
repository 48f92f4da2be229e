package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/period-engine/period"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(y int, m time.Month, d int) period.Date {
	return period.NewDate(y, m, d)
}

func mustParse(t *testing.T, id string) period.DateRange {
	t.Helper()
	rng, err := period.Parse(id)
	require.NoError(t, err, "parse %q", id)
	return rng
}

// =============================================================================
// PARSE - identifier shapes
// =============================================================================

func TestParse_Shapes(t *testing.T) {
	cases := []struct {
		id         string
		kind       period.Kind
		start, end period.Date
	}{
		{"20251114", period.KindDaily, date(2025, time.November, 14), date(2025, time.November, 14)},
		{"20250201_20250228", period.KindDateRange, date(2025, time.February, 1), date(2025, time.February, 28)},
		{"2025W01", period.KindWeekly, date(2024, time.December, 30), date(2025, time.January, 5)},
		{"2025W45", period.KindWeekly, date(2025, time.November, 3), date(2025, time.November, 9)},
		{"202502", period.KindMonthly, date(2025, time.February, 1), date(2025, time.February, 28)},
		{"202402", period.KindMonthly, date(2024, time.February, 1), date(2024, time.February, 29)},
		{"2025B3", period.KindBiMonthly, date(2025, time.May, 1), date(2025, time.June, 30)},
		{"2025Q3", period.KindQuarterly, date(2025, time.July, 1), date(2025, time.September, 30)},
		{"2025S2", period.KindSixMonthly, date(2025, time.July, 1), date(2025, time.December, 31)},
		{"2025AprilS2", period.KindSixMonthlyApril, date(2025, time.October, 1), date(2026, time.March, 31)},
		{"2025NovS1", period.KindSixMonthlyNovember, date(2025, time.November, 1), date(2026, time.April, 30)},
		{"2025", period.KindYearly, date(2025, time.January, 1), date(2025, time.December, 31)},
		{"20242025", period.KindTwoYearly, date(2024, time.January, 1), date(2025, time.December, 31)},
		{"2025April", period.KindFinancialApril, date(2025, time.April, 1), date(2026, time.March, 31)},
		{"2025July", period.KindFinancialJuly, date(2025, time.July, 1), date(2026, time.June, 30)},
		{"2025Oct", period.KindFinancialOct, date(2025, time.October, 1), date(2026, time.September, 30)},
		{"2025Nov", period.KindFinancialNov, date(2025, time.November, 1), date(2026, time.October, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			kind, err := period.KindOf(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)

			rng := mustParse(t, tc.id)
			assert.True(t, rng.Start.Equal(tc.start), "start: want %s, got %s", tc.start, rng.Start)
			assert.True(t, rng.End.Equal(tc.end), "end: want %s, got %s", tc.end, rng.End)
		})
	}
}

func TestParse_InvalidInputs(t *testing.T) {
	cases := []struct {
		id   string
		want error
	}{
		{"202513", period.ErrInvalidDate},        // month 13
		{"20250230", period.ErrInvalidDate},      // February 30
		{"20259901", period.ErrInvalidDate},      // neither a month nor year+1
		{"2025Q5", period.ErrInvalidDate},        // quarter out of range
		{"2025S3", period.ErrInvalidDate},        // half out of range
		{"2025B7", period.ErrInvalidDate},        // bimonth out of range
		{"2025W53", period.ErrInvalidDate},       // 2025 has 52 ISO weeks
		{"2025W00", period.ErrInvalidDate},       // week zero
		{"", period.ErrUnrecognizedPeriod},       // empty
		{"20251", period.ErrUnrecognizedPeriod},   // 5 digits matches nothing
		{"2025Jan", period.ErrUnrecognizedPeriod}, // no such label
		{"garbage", period.ErrUnrecognizedPeriod},
		{"2025-11", period.ErrUnrecognizedPeriod},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			_, err := period.Parse(tc.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "want %v, got %v", tc.want, err)
			assert.True(t, period.IsUsageError(err))
		})
	}
}

func TestParse_ReversedDateRange_Fails(t *testing.T) {
	// GIVEN: An explicit range id with end before start
	// WHEN: Parsing it
	// THEN: InvalidRange, not a silent swap

	_, err := period.Parse("20250228_20250201")
	require.Error(t, err)
	assert.True(t, errors.Is(err, period.ErrInvalidRange))
}

func TestParse_WeeklyWeek53_ValidOnlyIn53WeekYears(t *testing.T) {
	// 2026 is a 53-week ISO year (January 1 falls on a Thursday); 2025 is not.
	rng := mustParse(t, "2026W53")
	assert.Equal(t, 7, rng.Days())

	_, err := period.Parse("2025W53")
	assert.True(t, errors.Is(err, period.ErrInvalidDate))
}

// =============================================================================
// NEXT - same-kind succession
// =============================================================================

func TestNext_Succession(t *testing.T) {
	cases := []struct{ id, want string }{
		{"20251231", "20260101"},
		{"20240228", "20240229"}, // leap day
		{"202511", "202512"},
		{"202512", "202601"}, // year rollover
		{"2025Q1", "2025Q2"},
		{"2025Q4", "2026Q1"},
		{"2025S1", "2025S2"},
		{"2025S2", "2026S1"},
		{"2025AprilS2", "2026AprilS1"},
		{"2025NovS1", "2025NovS2"},
		{"2025B6", "2026B1"},
		{"2025W52", "2026W01"}, // 2025 has 52 weeks
		{"2026W52", "2026W53"}, // 2026 has 53
		{"2026W53", "2027W01"},
		{"2025", "2026"},
		{"20242025", "20262027"},
		{"2025April", "2026April"},
		{"2025Nov", "2026Nov"},
		{"20250201_20250207", "20250208_20250214"}, // contiguous, same length
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			next, err := period.Next(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, next)
		})
	}
}

func TestNext_MonthlyIsGapless(t *testing.T) {
	// GIVEN: Any valid monthly id
	// WHEN: Stepping to the next id
	// THEN: The next period starts exactly one day after this one ends

	for _, id := range []string{"202501", "202502", "202511", "202512", "202412"} {
		rng := mustParse(t, id)
		next, err := period.Next(id)
		require.NoError(t, err)
		nextRng := mustParse(t, next)
		assert.True(t, nextRng.Start.Equal(rng.End.AddDays(1)),
			"%s -> %s: gap or overlap (%s end, %s start)", id, next, rng.End, nextRng.Start)
	}
}

func TestNext_QuarterlyCyclesWithoutSkips(t *testing.T) {
	id := "2025Q1"
	seen := []string{id}
	for i := 0; i < 4; i++ {
		next, err := period.Next(id)
		require.NoError(t, err)
		seen = append(seen, next)
		id = next
	}
	assert.Equal(t, []string{"2025Q1", "2025Q2", "2025Q3", "2025Q4", "2026Q1"}, seen)
}

func TestNext_WeeklyIsGapless_AcrossYears(t *testing.T) {
	// Weekly succession must follow actual ISO numbering through the
	// 52/53-week boundary, never a fixed modulo.
	id := "2026W51"
	for i := 0; i < 4; i++ {
		rng := mustParse(t, id)
		next, err := period.Next(id)
		require.NoError(t, err)
		nextRng := mustParse(t, next)
		require.True(t, nextRng.Start.Equal(rng.End.AddDays(1)), "%s -> %s", id, next)
		id = next
	}
	assert.Equal(t, "2027W02", id)
}

// =============================================================================
// SORT KEY - chronological ordering
// =============================================================================

func TestSortKey_OrdersChronologically(t *testing.T) {
	ordered := [][]string{
		{"202511", "202512", "202601"},
		{"2024Q4", "2025Q1", "2025Q3"},
		{"2024", "2025", "2026"},
		{"2025W09", "2025W10", "2025W45"},
		{"20250101", "20250102", "20251231"},
		{"2025S1", "2025S2", "2026S1"},
	}
	for _, ids := range ordered {
		for i := 0; i < len(ids)-1; i++ {
			a, err := period.SortKey(ids[i])
			require.NoError(t, err)
			b, err := period.SortKey(ids[i+1])
			require.NoError(t, err)
			assert.True(t, a.Less(b), "%s should sort before %s", ids[i], ids[i+1])
			assert.False(t, b.Less(a))
		}
	}
}

func TestSortKey_AgreesWithParsedStartDates(t *testing.T) {
	ids := []string{"202401", "2024Q2", "202412", "2025W02", "20250301", "2025S2"}
	for i, a := range ids {
		for j, b := range ids {
			if i == j {
				continue
			}
			ka, err := period.SortKey(a)
			require.NoError(t, err)
			kb, err := period.SortKey(b)
			require.NoError(t, err)
			ra := mustParse(t, a)
			rb := mustParse(t, b)
			if ra.Start.Before(rb.Start) {
				assert.True(t, ka.Less(kb), "%s starts before %s", a, b)
			}
		}
	}
}

// =============================================================================
// KIND NAMES
// =============================================================================

func TestKindFromName_RoundTripsEnumeratedSet(t *testing.T) {
	names := []string{
		"Daily", "Weekly", "WeeklyWednesday", "WeeklyThursday",
		"WeeklySaturday", "WeeklySunday", "BiWeekly", "Monthly",
		"BiMonthly", "Quarterly", "SixMonthly", "SixMonthlyApril",
		"Yearly", "TwoYearly", "FinancialApril", "FinancialJuly",
	}
	for _, name := range names {
		kind, err := period.KindFromName(name)
		require.NoError(t, err)
		assert.Equal(t, name, kind.String())
	}

	// Long aliases normalize to the canonical short labels.
	kind, err := period.KindFromName("FinancialOctober")
	require.NoError(t, err)
	assert.Equal(t, "FinancialOct", kind.String())

	_, err = period.KindFromName("Fortnightly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, period.ErrUnsupportedPeriodType))
}
