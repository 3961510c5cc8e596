/*
Package factory provides JSON to Go compensation configuration conversion.

PURPOSE:
  Converts JSON compensation definitions into engine.CompensationStructure
  values and enforces the write-time validation rules the calculator
  deliberately does not: the calculator stays total (defined for all
  inputs), so rejecting bad configuration has to happen here, before
  persisting.

WHY JSON?
  - Managers configure pay schemes through an admin UI
  - Easy database storage of scheme configs
  - Version control for compensation definitions

JSON SCHEMA:
  {
    "rep_id": "rep-7",
    "commission_type": "per_meeting",
    "meeting_rates": {"booked": "25", "held": "75"}
  }

  {
    "rep_id": "rep-9",
    "commission_type": "goal_based",
    "goal_tiers": [
      {"percentage": 60,  "bonus": "200"},
      {"percentage": 100, "bonus": "500"},
      {"percentage": 140, "bonus": "1500"}
    ]
  }

VALIDATION RULES:
  - commission_type must be per_meeting or goal_based
  - meeting rates must not be negative
  - tier percentages and bonuses must be positive
  - duplicate tier percentages are rejected

USAGE:
  cs, err := factory.ParseCompensation(jsonString)

SEE ALSO:
  - engine/commission.go: The total calculator these configs feed
  - engine/errors.go: The sentinel errors returned here
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/sdr-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CompensationJSON is the JSON representation of a pay scheme. Rates and
// bonuses are decimal strings to avoid float drift in transit.
type CompensationJSON struct {
	RepID          string            `json:"rep_id"`
	CommissionType string            `json:"commission_type"`
	MeetingRates   *MeetingRatesJSON `json:"meeting_rates,omitempty"`
	GoalTiers      []GoalTierJSON    `json:"goal_tiers,omitempty"`
}

type MeetingRatesJSON struct {
	Booked string `json:"booked"`
	Held   string `json:"held"`
}

type GoalTierJSON struct {
	Percentage int    `json:"percentage"`
	Bonus      string `json:"bonus"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCompensation converts a JSON definition into a validated structure.
func ParseCompensation(jsonStr string) (engine.CompensationStructure, error) {
	var raw CompensationJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return engine.CompensationStructure{}, fmt.Errorf("invalid compensation JSON: %w", err)
	}
	return FromJSON(raw)
}

// FromJSON converts an already-decoded definition into a validated structure.
func FromJSON(raw CompensationJSON) (engine.CompensationStructure, error) {
	cs := engine.CompensationStructure{
		RepID: engine.RepID(raw.RepID),
		Type:  engine.CommissionType(raw.CommissionType),
	}

	switch cs.Type {
	case engine.CommissionPerMeeting:
		rates, err := parseRates(raw.MeetingRates)
		if err != nil {
			return engine.CompensationStructure{}, err
		}
		cs.MeetingRates = rates

	case engine.CommissionGoalBased:
		tiers, err := parseTiers(raw.GoalTiers)
		if err != nil {
			return engine.CompensationStructure{}, err
		}
		cs.GoalTiers = tiers

	default:
		return engine.CompensationStructure{}, fmt.Errorf("%w: %q", engine.ErrUnknownCommissionType, raw.CommissionType)
	}

	return cs, nil
}

func parseRates(raw *MeetingRatesJSON) (engine.MeetingRates, error) {
	if raw == nil {
		// Absent rates mean a zero scheme, which is valid.
		return engine.MeetingRates{Booked: decimal.Zero, Held: decimal.Zero}, nil
	}

	booked, err := parseRate("booked", raw.Booked)
	if err != nil {
		return engine.MeetingRates{}, err
	}
	held, err := parseRate("held", raw.Held)
	if err != nil {
		return engine.MeetingRates{}, err
	}
	return engine.MeetingRates{Booked: booked, Held: held}, nil
}

func parseRate(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s rate %q", engine.ErrInvalidRate, name, value)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s rate is negative", engine.ErrInvalidRate, name)
	}
	return d, nil
}

func parseTiers(raw []GoalTierJSON) ([]engine.GoalTier, error) {
	seen := make(map[int]bool, len(raw))
	tiers := make([]engine.GoalTier, 0, len(raw))

	for i, t := range raw {
		if t.Percentage <= 0 {
			return nil, &engine.TierError{Index: i, Percentage: t.Percentage, Err: engine.ErrInvalidTier}
		}
		if seen[t.Percentage] {
			return nil, &engine.TierError{Index: i, Percentage: t.Percentage, Err: engine.ErrDuplicateTierPercentage}
		}
		seen[t.Percentage] = true

		bonus, err := decimal.NewFromString(t.Bonus)
		if err != nil || !bonus.IsPositive() {
			return nil, &engine.TierError{Index: i, Percentage: t.Percentage, Err: engine.ErrInvalidTier}
		}

		tiers = append(tiers, engine.GoalTier{Percentage: t.Percentage, Bonus: bonus})
	}
	return tiers, nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// ToJSON converts a structure back to its JSON representation.
func ToJSON(cs engine.CompensationStructure) CompensationJSON {
	raw := CompensationJSON{
		RepID:          string(cs.RepID),
		CommissionType: string(cs.Type),
	}

	switch cs.Type {
	case engine.CommissionPerMeeting:
		raw.MeetingRates = &MeetingRatesJSON{
			Booked: cs.MeetingRates.Booked.String(),
			Held:   cs.MeetingRates.Held.String(),
		}
	case engine.CommissionGoalBased:
		raw.GoalTiers = make([]GoalTierJSON, len(cs.GoalTiers))
		for i, t := range cs.GoalTiers {
			raw.GoalTiers[i] = GoalTierJSON{Percentage: t.Percentage, Bonus: t.Bonus.String()}
		}
	}
	return raw
}
