package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/period-engine/analytics"
	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/calendars/convert"
	"github.com/warp/period-engine/period"
)

// =============================================================================
// FAKE COLLABORATORS
// =============================================================================

// fakeServer plays all four collaborator roles and records every data
// query so tests can assert on chunking and call counts.
type fakeServer struct {
	calendar string
	linkages []analytics.DatasetLinkage
	orgUnits []string

	// periodsByStartYear maps a window's Gregorian start year to the
	// period codes reported inside it.
	periodsByStartYear map[int][]string

	dataQueries []dataQuery
}

type dataQuery struct {
	orgUnits   []string
	start, end period.Date
}

func (f *fakeServer) SystemCalendar(ctx context.Context) (string, error) {
	return f.calendar, nil
}

func (f *fakeServer) DatasetLinkages(ctx context.Context, metricID string) ([]analytics.DatasetLinkage, error) {
	return f.linkages, nil
}

func (f *fakeServer) OrgUnitsAtLevel(ctx context.Context, level int) ([]string, error) {
	return f.orgUnits, nil
}

func (f *fakeServer) DataInWindow(ctx context.Context, metricID string, orgUnits []string, start, end period.Date) ([]analytics.DataPoint, error) {
	f.dataQueries = append(f.dataQueries, dataQuery{orgUnits: orgUnits, start: start, end: end})
	var points []analytics.DataPoint
	for i, code := range f.periodsByStartYear[start.Year()] {
		points = append(points, analytics.DataPoint{
			OrgUnit: orgUnits[i%len(orgUnits)],
			Period:  code,
			Value:   "1",
		})
	}
	return points, nil
}

func monthlyLinkage() []analytics.DatasetLinkage {
	return []analytics.DatasetLinkage{
		{DatasetID: "ds1", DatasetName: "Monthly Report", PeriodType: "Monthly"},
	}
}

func newTestScanner(f *fakeServer) *analytics.Scanner {
	s := analytics.NewScanner(f, f, f, f)
	s.Now = func() period.Date { return period.NewDate(2025, time.December, 1) }
	return s
}

// =============================================================================
// SCAN SCENARIOS
// =============================================================================

func TestScan_DataInCurrentYear(t *testing.T) {
	// GIVEN: A monthly metric with data in the current year
	// WHEN: Scanning
	// THEN: The global latest period wins after one checked year

	f := &fakeServer{
		calendar: "iso8601",
		linkages: monthlyLinkage(),
		orgUnits: []string{"ou1", "ou2"},
		periodsByStartYear: map[int][]string{
			2025: {"202501", "202510"},
		},
	}
	result, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 3)
	require.NoError(t, err)

	assert.Equal(t, "de123", result.MetricID)
	assert.Equal(t, 3, result.Level)
	assert.Equal(t, "Monthly", result.PeriodType)
	assert.Equal(t, calendars.ISO8601, result.Calendar)
	assert.Equal(t, 1, result.YearsChecked)

	require.NotNil(t, result.Existing)
	assert.Equal(t, "202510", result.Existing.ID)
	assert.Equal(t, "2025-10-01", result.Existing.Range.Start.String())
	assert.Equal(t, "2025-10-31", result.Existing.Range.End.String())

	require.NotNil(t, result.Next)
	assert.Equal(t, "202511", result.Next.ID)
	assert.Equal(t, "2025-11-01", result.Next.Range.Start.String())
	assert.Equal(t, "2025-11-30", result.Next.Range.End.String())
}

func TestScan_StepsBackToPriorYear(t *testing.T) {
	// GIVEN: No data in the current year, data two years old
	// WHEN: Scanning from a 2024 reference date
	// THEN: yearsChecked counts every scanned year and the next period
	//       crosses the year boundary

	f := &fakeServer{
		calendar: "iso8601",
		linkages: monthlyLinkage(),
		orgUnits: []string{"ou1"},
		periodsByStartYear: map[int][]string{
			2023: {"202311", "202312"},
		},
	}
	s := newTestScanner(f)
	s.Now = func() period.Date { return period.NewDate(2024, time.June, 10) }

	result, err := s.LatestPeriodForLevel(context.Background(), "de123", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.YearsChecked)
	require.NotNil(t, result.Existing)
	assert.Equal(t, "202312", result.Existing.ID)
	require.NotNil(t, result.Next)
	assert.Equal(t, "202401", result.Next.ID)

	// One query per year window: 2024 (empty), then 2023.
	require.Len(t, f.dataQueries, 2)
	assert.Equal(t, 2024, f.dataQueries[0].start.Year())
	assert.Equal(t, 2023, f.dataQueries[1].start.Year())
}

func TestScan_InconsistentFrequency_FailsBeforeAnyDataQuery(t *testing.T) {
	// GIVEN: A metric linked to both a Monthly and a Quarterly dataset
	// WHEN: Scanning
	// THEN: InconsistentFrequency listing both datasets, no data query

	f := &fakeServer{
		calendar: "iso8601",
		linkages: []analytics.DatasetLinkage{
			{DatasetID: "ds1", DatasetName: "Monthly Report", PeriodType: "Monthly"},
			{DatasetID: "ds2", DatasetName: "Quarterly Review", PeriodType: "Quarterly"},
		},
		orgUnits: []string{"ou1"},
	}
	_, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, analytics.ErrInconsistentFrequency))
	assert.True(t, analytics.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "Monthly Report")
	assert.Contains(t, err.Error(), "Quarterly Review")
	assert.Empty(t, f.dataQueries)
}

func TestScan_NoLinkages_UnresolvedFrequency(t *testing.T) {
	f := &fakeServer{calendar: "iso8601", orgUnits: []string{"ou1"}}
	_, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, analytics.ErrUnresolvedFrequency))
	assert.True(t, analytics.IsConfigurationError(err))
	assert.Empty(t, f.dataQueries)
}

func TestScan_EmptyLevel_TerminalStateWithoutQueries(t *testing.T) {
	// GIVEN: A level resolving to zero organisation units
	// THEN: A valid empty result, no data-window query issued

	f := &fakeServer{
		calendar: "iso8601",
		linkages: monthlyLinkage(),
		orgUnits: nil,
	}
	result, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 5)
	require.NoError(t, err)
	assert.Nil(t, result.Existing)
	assert.Nil(t, result.Next)
	assert.Equal(t, 0, result.YearsChecked)
	assert.Empty(t, f.dataQueries)
}

func TestScan_NoDataWithinHorizon_IsNotAnError(t *testing.T) {
	f := &fakeServer{
		calendar: "iso8601",
		linkages: monthlyLinkage(),
		orgUnits: []string{"ou1"},
	}
	s := newTestScanner(f)
	s.MaxYearsBack = 5

	result, err := s.LatestPeriodForLevel(context.Background(), "de123", 2)
	require.NoError(t, err)
	assert.Nil(t, result.Existing)
	assert.Nil(t, result.Next)
	assert.Equal(t, 5, result.YearsChecked)
	require.Len(t, f.dataQueries, 5)
	// Windows slide back one calendar year at a time.
	for i, q := range f.dataQueries {
		assert.Equal(t, 2025-i, q.start.Year())
	}
}

// =============================================================================
// CHUNKING
// =============================================================================

func TestScan_ChunksOrgUnits(t *testing.T) {
	// GIVEN: 450 organisation units and the default 200-unit chunk limit
	// THEN: Each year window issues 3 queries of sizes 200/200/50

	units := make([]string, 450)
	for i := range units {
		units[i] = fmt.Sprintf("ou%03d", i)
	}
	f := &fakeServer{
		calendar: "iso8601",
		linkages: monthlyLinkage(),
		orgUnits: units,
		periodsByStartYear: map[int][]string{
			2025: {"202507"},
		},
	}
	result, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, result.YearsChecked)

	require.Len(t, f.dataQueries, 3)
	assert.Len(t, f.dataQueries[0].orgUnits, 200)
	assert.Len(t, f.dataQueries[1].orgUnits, 200)
	assert.Len(t, f.dataQueries[2].orgUnits, 50)
}

func TestScan_ResultIndependentOfChunkOrdering(t *testing.T) {
	// The distinct-union-then-max aggregation is commutative and
	// associative: shuffling the organisation-unit order (and therefore
	// how periods land in chunks) never changes the outcome.

	units := make([]string, 500)
	for i := range units {
		units[i] = fmt.Sprintf("ou%03d", i)
	}
	codes := []string{"202501", "202503", "202509", "202510", "202502", "202508"}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]string(nil), units...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		f := &fakeServer{
			calendar:           "iso8601",
			linkages:           monthlyLinkage(),
			orgUnits:           shuffled,
			periodsByStartYear: map[int][]string{2025: codes},
		}
		s := newTestScanner(f)
		s.ChunkSize = 50 + trial*37

		result, err := s.LatestPeriodForLevel(context.Background(), "de123", 4)
		require.NoError(t, err)
		require.NotNil(t, result.Existing)
		assert.Equal(t, "202510", result.Existing.ID, "trial %d", trial)
		assert.Equal(t, "202511", result.Next.ID, "trial %d", trial)
	}
}

// =============================================================================
// CALENDAR HANDLING
// =============================================================================

func TestScan_EthiopianCalendar_WindowsFollowCalendarYears(t *testing.T) {
	// GIVEN: An Ethiopian server and converters available
	// WHEN: Scanning with no data anywhere
	// THEN: Windows are Ethiopian years, contiguous going backward

	f := &fakeServer{
		calendar: "ethiopian",
		linkages: monthlyLinkage(),
		orgUnits: []string{"ou1"},
	}
	s := newTestScanner(f)
	s.Converters = convert.All()
	s.MaxYearsBack = 3
	s.Now = func() period.Date { return period.NewDate(2025, time.November, 15) }

	result, err := s.LatestPeriodForLevel(context.Background(), "de123", 2)
	require.NoError(t, err)
	assert.Equal(t, calendars.Ethiopian, result.Calendar)
	assert.Equal(t, 3, result.YearsChecked)

	require.Len(t, f.dataQueries, 3)
	// Ethiopian 2018 opened on 2025-09-11.
	assert.Equal(t, "2025-09-11", f.dataQueries[0].start.String())
	for i := 0; i < len(f.dataQueries)-1; i++ {
		assert.True(t, f.dataQueries[i].start.Equal(f.dataQueries[i+1].end.AddDays(1)),
			"year windows must be contiguous")
	}
}

func TestScan_UnknownCalendar_DegradesToISO(t *testing.T) {
	f := &fakeServer{
		calendar:           "chaos",
		linkages:           monthlyLinkage(),
		orgUnits:           []string{"ou1"},
		periodsByStartYear: map[int][]string{2025: {"202503"}},
	}
	result, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 2)
	require.NoError(t, err)
	assert.Equal(t, calendars.ISO8601, result.Calendar)
	require.NotNil(t, result.Existing)
	assert.Equal(t, "202503", result.Existing.ID)
}

func TestScan_UnknownPeriodTypeName_Fails(t *testing.T) {
	f := &fakeServer{
		calendar: "iso8601",
		linkages: []analytics.DatasetLinkage{
			{DatasetID: "ds1", DatasetName: "Odd", PeriodType: "Fortnightly"},
		},
		orgUnits: []string{"ou1"},
	}
	_, err := newTestScanner(f).LatestPeriodForLevel(context.Background(), "de123", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, period.ErrUnsupportedPeriodType))
	assert.Empty(t, f.dataQueries)
}

// =============================================================================
// COLLABORATOR FAILURES
// =============================================================================

type failingOrgUnits struct {
	*fakeServer
}

func (f failingOrgUnits) OrgUnitsAtLevel(ctx context.Context, level int) ([]string, error) {
	return nil, errors.New("upstream exploded")
}

func TestScan_CollaboratorFailure_PassesThrough(t *testing.T) {
	f := &fakeServer{calendar: "iso8601", linkages: monthlyLinkage()}
	s := analytics.NewScanner(f, f, failingOrgUnits{f}, f)
	s.Now = func() period.Date { return period.NewDate(2025, time.December, 1) }

	_, err := s.LatestPeriodForLevel(context.Background(), "de123", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Contains(t, err.Error(), "level 2")
}
