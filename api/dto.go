/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract. All derived
  figures (counts, percentages, payouts) are plain JSON numbers; the
  engine never emits formatted strings, and neither does this layer -
  formatting and localization belong to the clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the factory package, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/compensation.go: CompensationJSON type reused for pay schemes
*/
package api

import (
	"time"

	"github.com/warp/sdr-engine/engine"
)

// =============================================================================
// MEETINGS
// =============================================================================

// MeetingDTO represents a meeting in API responses.
type MeetingDTO struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	RepID     string `json:"rep_id,omitempty"`
	ClientID  string `json:"client_id"`
	BookedAt  string `json:"booked_at,omitempty"`
	Scheduled string `json:"scheduled_at,omitempty"`
	Confirmed string `json:"confirmed_at,omitempty"`
	HeldAt    string `json:"held_at,omitempty"`

	Status             string `json:"status"`
	NoShow             bool   `json:"no_show"`
	NoLongerInterested bool   `json:"no_longer_interested"`
	ICPStatus          string `json:"icp_status,omitempty"`
	DisplayState       string `json:"display_state"`
}

// CreateMeetingRequest is the request to book a meeting.
type CreateMeetingRequest struct {
	TenantID    string `json:"tenant_id"`
	RepID       string `json:"rep_id,omitempty"`
	ClientID    string `json:"client_id"`
	BookedAt    string `json:"booked_at,omitempty"` // RFC3339; defaults to now
	ScheduledAt string `json:"scheduled_at"`
	ICPStatus   string `json:"icp_status,omitempty"`
}

// SetICPStatusRequest updates the qualification gate.
type SetICPStatusRequest struct {
	ICPStatus string `json:"icp_status"`
}

// SetNotInterestedRequest toggles the orthogonal not-interested flag.
type SetNotInterestedRequest struct {
	NotInterested bool `json:"not_interested"`
}

func toMeetingDTO(m engine.Meeting) MeetingDTO {
	return MeetingDTO{
		ID:                 string(m.ID),
		TenantID:           m.TenantID,
		RepID:              string(m.RepID),
		ClientID:           string(m.ClientID),
		BookedAt:           formatTime(m.BookedAt),
		Scheduled:          formatTime(m.ScheduledAt),
		Confirmed:          formatTimePtr(m.ConfirmedAt),
		HeldAt:             formatTimePtr(m.HeldAt),
		Status:             string(m.Status),
		NoShow:             m.NoShow,
		NoLongerInterested: m.NoLongerInterested,
		ICPStatus:          string(m.ICPStatus),
		DisplayState:       string(engine.StateOf(m)),
	}
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// AssignmentDTO represents a quota contract in API responses.
type AssignmentDTO struct {
	ID                string `json:"id"`
	TenantID          string `json:"tenant_id"`
	RepID             string `json:"rep_id"`
	ClientID          string `json:"client_id"`
	Year              int    `json:"year"`
	Month             int    `json:"month"`
	MonthlySetTarget  int    `json:"monthly_set_target"`
	MonthlyHoldTarget int    `json:"monthly_hold_target"`
	Active            bool   `json:"is_active"`
}

// SaveAssignmentRequest creates or updates a quota contract.
type SaveAssignmentRequest struct {
	ID                string `json:"id,omitempty"`
	TenantID          string `json:"tenant_id"`
	RepID             string `json:"rep_id"`
	ClientID          string `json:"client_id"`
	Year              int    `json:"year"`
	Month             int    `json:"month"`
	MonthlySetTarget  int    `json:"monthly_set_target"`
	MonthlyHoldTarget int    `json:"monthly_hold_target"`
	Active            *bool  `json:"is_active,omitempty"` // Defaults to true
}

func toAssignmentDTO(a engine.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:                a.ID,
		TenantID:          a.TenantID,
		RepID:             string(a.RepID),
		ClientID:          string(a.ClientID),
		Year:              a.Month.Year,
		Month:             int(a.Month.Month),
		MonthlySetTarget:  a.MonthlySetTarget,
		MonthlyHoldTarget: a.MonthlyHoldTarget,
		Active:            a.Active,
	}
}

// =============================================================================
// DASHBOARD / HISTORY
// =============================================================================

// DashboardDTO is one rep's derived numbers for one month.
type DashboardDTO struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	MeetingsSet  int `json:"meetings_set"`
	MeetingsHeld int `json:"meetings_held"`
	Confirmed    int `json:"confirmed"`
	Pending      int `json:"pending"`
	NoShows      int `json:"no_shows"`
	PastDue      int `json:"past_due"`

	SetGoal  int     `json:"set_goal"`
	HeldGoal int     `json:"held_goal"`
	SetPct   float64 `json:"set_pct"`
	HeldPct  float64 `json:"held_pct"`

	CommissionGoal int     `json:"commission_goal"`
	Commission     float64 `json:"commission"`

	Clients []ClientProgressDTO `json:"clients"`
}

// ClientProgressDTO is the per-client quota breakdown row.
type ClientProgressDTO struct {
	ClientID     string  `json:"client_id"`
	SetGoal      int     `json:"set_goal"`
	HeldGoal     int     `json:"held_goal"`
	MeetingsSet  int     `json:"meetings_set"`
	MeetingsHeld int     `json:"meetings_held"`
	SetPct       float64 `json:"set_pct"`
	HeldPct      float64 `json:"held_pct"`
}

// HistoryEntryDTO is one month in the trailing time series.
type HistoryEntryDTO struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	SetGoal      int     `json:"set_goal"`
	HeldGoal     int     `json:"held_goal"`
	MeetingsSet  int     `json:"meetings_set"`
	MeetingsHeld int     `json:"meetings_held"`
	ProgressPct  float64 `json:"progress_pct"`
	Commission   float64 `json:"commission"`
}

// WhatIfRequest asks what the payout would be at a hypothetical held count.
type WhatIfRequest struct {
	HeldCount int `json:"held_count"`
	Year      int `json:"year,omitempty"`
	Month     int `json:"month,omitempty"`
}

// WhatIfDTO is the calculator tool's answer.
type WhatIfDTO struct {
	HeldCount      int     `json:"held_count"`
	CommissionGoal int     `json:"commission_goal"`
	Commission     float64 `json:"commission"`
}

// =============================================================================
// COMPENSATION / OVERRIDES
// =============================================================================

// SaveOverrideRequest sets a rep's manual commission goal.
type SaveOverrideRequest struct {
	CommissionGoal int `json:"commission_goal"`
}

// OverrideDTO is the stored override in responses.
type OverrideDTO struct {
	RepID          string `json:"rep_id"`
	CommissionGoal int    `json:"commission_goal"`
}

// =============================================================================
// MISC
// =============================================================================

// RevisionDTO is the change-notifier polling response.
type RevisionDTO struct {
	Revision uint64 `json:"revision"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
