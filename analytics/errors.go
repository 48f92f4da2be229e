/*
errors.go - Scanner-level error types

PURPOSE:
  Errors raised while resolving a metric's reporting frequency. These are
  configuration errors in the server's data model, not transient failures:
  callers MUST NOT retry them. Absence of data is never an error here; an
  empty scan returns a normal ScanResult.

SEE ALSO:
  - scanner.go: Raises these before any data query is issued
  - period/errors.go: Parsing/computation taxonomy
  - dhis2 package: CollaboratorError for external call failures
*/
package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnresolvedFrequency is returned when a metric has no dataset
	// linkage; the engine refuses to guess a reporting frequency.
	ErrUnresolvedFrequency = errors.New("metric has no dataset linkage")

	// ErrInconsistentFrequency is returned when a metric is linked to
	// datasets of differing period types.
	ErrInconsistentFrequency = errors.New("metric linked to inconsistent period types")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnresolvedFrequencyError identifies the unlinked metric.
type UnresolvedFrequencyError struct {
	MetricID string
}

func (e *UnresolvedFrequencyError) Error() string {
	return fmt.Sprintf("metric %s has no dataset linkage to derive a period type from", e.MetricID)
}

func (e *UnresolvedFrequencyError) Unwrap() error { return ErrUnresolvedFrequency }

// InconsistentFrequencyError lists the conflicting datasets and their
// period types so the misconfiguration can be diagnosed.
type InconsistentFrequencyError struct {
	MetricID  string
	Conflicts []DatasetLinkage
}

func (e *InconsistentFrequencyError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, l := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s (%s): %s", l.DatasetName, l.DatasetID, l.PeriodType))
	}
	return fmt.Sprintf("metric %s linked to datasets of differing period types: %s",
		e.MetricID, strings.Join(parts, "; "))
}

func (e *InconsistentFrequencyError) Unwrap() error { return ErrInconsistentFrequency }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigurationError returns true for errors rooted in the server's
// data-model configuration. Retrying these cannot succeed.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnresolvedFrequency) ||
		errors.Is(err, ErrInconsistentFrequency)
}
