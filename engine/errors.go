/*
errors.go - Centralized error types for the engine and its collaborators

PURPOSE:
  All sentinel errors in one place. The pure computation itself never
  fails: classification, aggregation, quota resolution and commission are
  total functions. These errors belong to the collaborators around the
  core (record store, configuration validation, HTTP layer) and are
  defined here so every package maps them consistently.

USAGE:
  if errors.Is(err, engine.ErrMeetingNotFound) { ... }

SEE ALSO:
  - store/sqlite: Returns the not-found sentinels
  - factory: Returns the tier validation errors
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMeetingNotFound is returned when a referenced meeting doesn't exist.
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrAssignmentNotFound is returned when a referenced assignment doesn't exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrCompensationNotFound is returned when a rep has no compensation
	// structure. Callers substitute ZeroStructure rather than branching on nil.
	ErrCompensationNotFound = errors.New("compensation structure not found")

	// ErrOverrideNotFound is returned when a rep has no commission goal override.
	// Absence is the normal case; the calculated goal applies.
	ErrOverrideNotFound = errors.New("commission goal override not found")

	// ErrDuplicateTierPercentage is returned by write-time validation when two
	// tiers share a threshold. The calculator itself stays total and resolves
	// duplicates deterministically.
	ErrDuplicateTierPercentage = errors.New("duplicate tier percentage")

	// ErrInvalidTier is returned for non-positive tier percentages or bonuses.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidRate is returned for negative meeting rates.
	ErrInvalidRate = errors.New("invalid meeting rate")

	// ErrUnknownCommissionType is returned by write-time validation for an
	// unrecognized scheme.
	ErrUnknownCommissionType = errors.New("unknown commission type")

	// ErrInvalidTarget is returned for negative assignment targets.
	ErrInvalidTarget = errors.New("invalid quota target")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// TierError carries the offending tier index for configuration validation
// failures.
type TierError struct {
	Index      int
	Percentage int
	Err        error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("tier %d (%d%%): %v", e.Index, e.Percentage, e.Err)
}

func (e *TierError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMeetingNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrCompensationNotFound) ||
		errors.Is(err, ErrOverrideNotFound)
}

// IsValidation reports whether the error is a configuration validation
// failure, i.e. invalid client input rather than a server fault.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateTierPercentage) ||
		errors.Is(err, ErrInvalidTier) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrUnknownCommissionType) ||
		errors.Is(err, ErrInvalidTarget)
}
