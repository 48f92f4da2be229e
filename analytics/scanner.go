/*
scanner.go - Latest-populated-period scanner

PURPOSE:
  Finds the single most recent reporting period, anywhere under an
  organisation-unit level (descendants included), for which at least one
  data point exists for a metric, and reports the period immediately
  following it: the next period due for import.

ALGORITHM:
  1. Resolve the metric's period type from its dataset linkages; exactly
     one distinct frequency is required.
  2. Resolve the active system calendar.
  3. Resolve the organisation units at the level; an empty level is a
     valid terminal state, not an error.
  4. Query the batch-data collaborator for the current calendar year's
     window, chunking organisation units to respect collaborator limits,
     and collect every distinct period code returned.
  5. Slide back one calendar year at a time, up to the horizon, stopping
     at the first year with any matches.
  6. The global latest code (by sort key, not per organisation unit) wins.

  The scan is strictly sequential and bounded by the year horizon; the
  distinct-union-then-max aggregation is commutative and associative, so
  chunk ordering never affects the outcome.

SEE ALSO:
  - errors.go: Frequency-resolution errors raised in step 1
  - dhis2 package: The production collaborator implementation
*/
package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/period"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// DatasetLinkage ties a metric to one reporting dataset and its frequency.
type DatasetLinkage struct {
	DatasetID   string
	DatasetName string
	PeriodType  string
}

// DataPoint is one raw data value row from a window query. Value is kept
// as the opaque wire string; the scanner only consumes Period.
type DataPoint struct {
	OrgUnit string
	Period  string
	Value   string
}

// SystemInfoSource announces the server's active calendar.
type SystemInfoSource interface {
	SystemCalendar(ctx context.Context) (string, error)
}

// DatasetLinkageSource resolves a metric's reporting-schedule metadata.
type DatasetLinkageSource interface {
	DatasetLinkages(ctx context.Context, metricID string) ([]DatasetLinkage, error)
}

// OrgUnitSource resolves the organisation units at a level.
type OrgUnitSource interface {
	OrgUnitsAtLevel(ctx context.Context, level int) ([]string, error)
}

// DataSource queries raw data points for a metric across organisation
// units inside a date window.
type DataSource interface {
	DataInWindow(ctx context.Context, metricID string, orgUnits []string, start, end period.Date) ([]DataPoint, error)
}

// =============================================================================
// SCAN RESULT
// =============================================================================

// PeriodRef pairs a period identifier with its resolved date range.
type PeriodRef struct {
	ID    string
	Range period.DateRange
}

// ScanResult reports one scan's outcome. Existing and Next are nil when
// no data was found within the horizon; that is a legitimate outcome.
type ScanResult struct {
	MetricID     string
	Level        int
	PeriodType   string
	Calendar     calendars.ID
	YearsChecked int
	Existing     *PeriodRef
	Next         *PeriodRef
}

// =============================================================================
// SCANNER
// =============================================================================

const (
	// DefaultChunkSize bounds organisation-unit ids per data query.
	DefaultChunkSize = 200

	// DefaultMaxYearsBack bounds the backward search horizon.
	DefaultMaxYearsBack = 30
)

// Scanner orchestrates the collaborator calls for one scan. Fields may be
// tuned after construction; every scan invocation is independent and
// side-effect-free beyond the read-only collaborator calls it issues.
type Scanner struct {
	System   SystemInfoSource
	Linkages DatasetLinkageSource
	OrgUnits OrgUnitSource
	Data     DataSource

	// Converters supplies non-Gregorian calendar arithmetic; nil means
	// every non-Gregorian calendar degrades to Gregorian windows.
	Converters calendars.Registry

	Log          zerolog.Logger
	ChunkSize    int
	MaxYearsBack int

	// Now is the current-date source, injectable for tests.
	Now func() period.Date
}

// NewScanner wires the four collaborators with default bounds and a
// no-op logger.
func NewScanner(system SystemInfoSource, linkages DatasetLinkageSource, orgUnits OrgUnitSource, data DataSource) *Scanner {
	return &Scanner{
		System:       system,
		Linkages:     linkages,
		OrgUnits:     orgUnits,
		Data:         data,
		Log:          zerolog.Nop(),
		ChunkSize:    DefaultChunkSize,
		MaxYearsBack: DefaultMaxYearsBack,
		Now:          period.Today,
	}
}

// LatestPeriodForLevel scans backward through calendar years for the most
// recent period with any data for the metric under the level.
func (s *Scanner) LatestPeriodForLevel(ctx context.Context, metricID string, level int) (ScanResult, error) {
	log := s.Log.With().
		Str("scan", uuid.NewString()).
		Str("metric", metricID).
		Int("level", level).
		Logger()

	result := ScanResult{MetricID: metricID, Level: level}

	// Step 1: frequency resolution. Fails before any data query when the
	// configuration is ambiguous.
	periodType, err := s.resolvePeriodType(ctx, metricID)
	if err != nil {
		return result, err
	}
	result.PeriodType = periodType
	if _, err := period.KindFromName(periodType); err != nil {
		return result, fmt.Errorf("metric %s: %w", metricID, err)
	}

	// Step 2: active calendar.
	calName, err := s.System.SystemCalendar(ctx)
	if err != nil {
		return result, fmt.Errorf("resolve system calendar: %w", err)
	}
	calID := calendars.ParseID(calName)
	adapter := calendars.NewAdapter(calID, s.Converters)
	result.Calendar = calID

	// Step 3: organisation units under the level.
	units, err := s.OrgUnits.OrgUnitsAtLevel(ctx, level)
	if err != nil {
		return result, fmt.Errorf("resolve org units at level %d: %w", level, err)
	}
	if len(units) == 0 {
		log.Info().Msg("no organisation units at level, nothing to scan")
		return result, nil
	}

	log.Debug().
		Str("periodType", periodType).
		Str("calendar", string(calID)).
		Int("orgUnits", len(units)).
		Msg("scan starting")

	// Steps 4-7: year-by-year backward scan.
	today := s.now()
	label, _ := adapter.CurrentYearLabel(today)
	horizon := s.maxYearsBack()

	for i := 0; i < horizon; i++ {
		bounds := adapter.YearBounds(label - i)
		codes, err := s.collectPeriodCodes(ctx, metricID, units, bounds)
		if err != nil {
			return result, err
		}
		result.YearsChecked = i + 1

		if len(codes) == 0 {
			log.Debug().Int("yearLabel", label-i).Msg("no data in year window")
			continue
		}

		latest, ok := s.latestCode(log, codes)
		if !ok {
			// Every code in the window was unparsable; treat as empty.
			continue
		}
		return s.finish(log, result, latest)
	}

	log.Info().Int("yearsChecked", result.YearsChecked).Msg("no data within scan horizon")
	return result, nil
}

// resolvePeriodType requires exactly one distinct frequency across the
// metric's dataset linkages.
func (s *Scanner) resolvePeriodType(ctx context.Context, metricID string) (string, error) {
	linkages, err := s.Linkages.DatasetLinkages(ctx, metricID)
	if err != nil {
		return "", fmt.Errorf("resolve dataset linkages for %s: %w", metricID, err)
	}
	if len(linkages) == 0 {
		return "", &UnresolvedFrequencyError{MetricID: metricID}
	}
	distinct := map[string]bool{}
	for _, l := range linkages {
		distinct[l.PeriodType] = true
	}
	if len(distinct) > 1 {
		return "", &InconsistentFrequencyError{MetricID: metricID, Conflicts: linkages}
	}
	return linkages[0].PeriodType, nil
}

// collectPeriodCodes unions the distinct period codes reported by every
// organisation-unit chunk inside one year window.
func (s *Scanner) collectPeriodCodes(ctx context.Context, metricID string, units []string, window period.DateRange) (map[string]bool, error) {
	codes := map[string]bool{}
	for _, chunk := range chunkStrings(units, s.chunkSize()) {
		points, err := s.Data.DataInWindow(ctx, metricID, chunk, window.Start, window.End)
		if err != nil {
			return nil, fmt.Errorf("query data window %s: %w", window, err)
		}
		for _, p := range points {
			if p.Period != "" {
				codes[p.Period] = true
			}
		}
	}
	return codes, nil
}

// latestCode picks the chronologically latest code by sort key. The
// union-then-max step is order-independent.
func (s *Scanner) latestCode(log zerolog.Logger, codes map[string]bool) (string, bool) {
	var best string
	var bestKey period.Key
	for code := range codes {
		key, err := period.SortKey(code)
		if err != nil {
			log.Warn().Str("period", code).Err(err).Msg("skipping unparsable period code")
			continue
		}
		if best == "" || bestKey.Less(key) {
			best, bestKey = code, key
		}
	}
	return best, best != ""
}

// finish attaches the existing period's range and the immediately
// following period.
func (s *Scanner) finish(log zerolog.Logger, result ScanResult, latest string) (ScanResult, error) {
	existingRange, err := period.Parse(latest)
	if err != nil {
		return result, fmt.Errorf("resolve period %q: %w", latest, err)
	}
	nextID, err := period.Next(latest)
	if err != nil {
		return result, fmt.Errorf("compute period after %q: %w", latest, err)
	}
	nextRange, err := period.Parse(nextID)
	if err != nil {
		return result, fmt.Errorf("resolve period %q: %w", nextID, err)
	}

	result.Existing = &PeriodRef{ID: latest, Range: existingRange}
	result.Next = &PeriodRef{ID: nextID, Range: nextRange}

	log.Info().
		Str("existing", latest).
		Str("next", nextID).
		Int("yearsChecked", result.YearsChecked).
		Msg("latest populated period found")
	return result, nil
}

func (s *Scanner) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return DefaultChunkSize
}

func (s *Scanner) maxYearsBack() int {
	if s.MaxYearsBack > 0 {
		return s.MaxYearsBack
	}
	return DefaultMaxYearsBack
}

func (s *Scanner) now() period.Date {
	if s.Now != nil {
		return s.Now()
	}
	return period.Today()
}

// chunkStrings splits ids into blocks of at most size.
func chunkStrings(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	return append(out, ids)
}
