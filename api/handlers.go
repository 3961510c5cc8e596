/*
handlers.go - HTTP API handlers for the SDR performance tracker

PURPOSE:
  Exposes the meeting lifecycle and commission engine via REST API.
  Handles HTTP request/response, JSON serialization, and delegates the
  numbers to the engine package.

ENDPOINTS:
  Meetings:
    POST   /api/meetings                    Book a meeting
    GET    /api/meetings/{id}               Get one meeting
    DELETE /api/meetings/{id}               Delete permanently
    POST   /api/meetings/{id}/confirm       Lifecycle: pending -> confirmed
    POST   /api/meetings/{id}/hold          Lifecycle: mark held
    POST   /api/meetings/{id}/no-show       Lifecycle: mark no-show
    POST   /api/meetings/{id}/reset         Lifecycle: manual reset
    PUT    /api/meetings/{id}/icp-status    Qualification gate
    PUT    /api/meetings/{id}/not-interested Orthogonal flag

  Assignments:
    POST   /api/assignments                 Create/update quota contract
    GET    /api/assignments/{id}            Get one contract

  Reps:
    GET    /api/reps/{id}/dashboard         Current/explicit month numbers
    GET    /api/reps/{id}/history           Trailing month time series
    POST   /api/reps/{id}/commission/whatif Hypothetical payout
    PUT    /api/reps/{id}/compensation      Save pay scheme
    GET    /api/reps/{id}/compensation      Get pay scheme
    PUT    /api/reps/{id}/commission-goal   Set override
    DELETE /api/reps/{id}/commission-goal   Clear override

  Change notification:
    GET    /api/revision                    Poll the revision counter

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/sdr-engine/engine"
	"github.com/warp/sdr-engine/factory"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the handlers need. Both the sqlite and
// the memory implementations satisfy it.
type Store interface {
	engine.RecordStore
	engine.MeetingStore
	engine.AssignmentStore
	engine.CompensationStore
	engine.ChangeNotifier
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store Store

	// Clock supplies "now" so tests can pin it. Defaults to UTC wall time.
	Clock func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store Store) *Handler {
	return &Handler{
		Store: store,
		Clock: func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) now() time.Time { return h.Clock() }

// tenantOf resolves the tenant scope from the query string. Tenant routing
// proper lives in the surrounding product; here a single parameter is enough.
func tenantOf(r *http.Request) string {
	if t := r.URL.Query().Get("tenant"); t != "" {
		return t
	}
	return "default"
}

// =============================================================================
// MEETING HANDLERS
// =============================================================================

// CreateMeeting books a meeting.
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "client_id is required", nil)
		return
	}

	scheduledAt, err := parseRFC3339(req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheduled_at (use RFC3339)", err)
		return
	}

	bookedAt := h.now()
	if req.BookedAt != "" {
		bookedAt, err = parseRFC3339(req.BookedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid booked_at (use RFC3339)", err)
			return
		}
	}

	tenant := req.TenantID
	if tenant == "" {
		tenant = "default"
	}

	m := engine.Meeting{
		ID:          engine.MeetingID(uuid.NewString()),
		TenantID:    tenant,
		RepID:       engine.RepID(req.RepID),
		ClientID:    engine.ClientID(req.ClientID),
		BookedAt:    bookedAt,
		ScheduledAt: scheduledAt,
		Status:      engine.StatusPending,
		ICPStatus:   engine.ICPStatus(req.ICPStatus),
	}

	if err := h.Store.SaveMeeting(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save meeting", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMeetingDTO(m))
}

// GetMeeting returns a single meeting.
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMeeting(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMeetingDTO(*m))
}

// DeleteMeeting removes a meeting permanently; it disappears from all
// aggregates.
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := engine.MeetingID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteMeeting(r.Context(), id); err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Meeting not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete meeting", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmMeeting transitions pending -> confirmed.
func (h *Handler) ConfirmMeeting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(m *engine.Meeting) { m.Confirm(h.now()) })
}

// HoldMeeting marks the meeting completed.
func (h *Handler) HoldMeeting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(m *engine.Meeting) { m.MarkHeld(h.now()) })
}

// NoShowMeeting records a no-show.
func (h *Handler) NoShowMeeting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(m *engine.Meeting) { m.MarkNoShow() })
}

// ResetMeeting returns the meeting to pristine pending.
func (h *Handler) ResetMeeting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(m *engine.Meeting) { m.Reset() })
}

// SetICPStatus updates the qualification gate.
func (h *Handler) SetICPStatus(w http.ResponseWriter, r *http.Request) {
	var req SetICPStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.transition(w, r, func(m *engine.Meeting) { m.ICPStatus = engine.ICPStatus(req.ICPStatus) })
}

// SetNotInterested toggles the orthogonal not-interested flag.
func (h *Handler) SetNotInterested(w http.ResponseWriter, r *http.Request) {
	var req SetNotInterestedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.transition(w, r, func(m *engine.Meeting) { m.SetNotInterested(req.NotInterested) })
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(*engine.Meeting)) {
	m, ok := h.loadMeeting(w, r)
	if !ok {
		return
	}
	apply(m)
	if err := h.Store.SaveMeeting(r.Context(), *m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save meeting", err)
		return
	}
	writeJSON(w, http.StatusOK, toMeetingDTO(*m))
}

func (h *Handler) loadMeeting(w http.ResponseWriter, r *http.Request) (*engine.Meeting, bool) {
	id := engine.MeetingID(chi.URLParam(r, "id"))
	m, err := h.Store.GetMeeting(r.Context(), id)
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Meeting not found", nil)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to load meeting", err)
		}
		return nil, false
	}
	return m, true
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// SaveAssignment creates or updates a quota contract.
func (h *Handler) SaveAssignment(w http.ResponseWriter, r *http.Request) {
	var req SaveAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.RepID == "" || req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "rep_id and client_id are required", nil)
		return
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year/month", nil)
		return
	}
	if req.MonthlySetTarget < 0 || req.MonthlyHoldTarget < 0 {
		writeError(w, http.StatusBadRequest, "Targets must not be negative", engine.ErrInvalidTarget)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	tenant := req.TenantID
	if tenant == "" {
		tenant = "default"
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	a := engine.Assignment{
		ID:                id,
		TenantID:          tenant,
		RepID:             engine.RepID(req.RepID),
		ClientID:          engine.ClientID(req.ClientID),
		Month:             engine.NewMonth(req.Year, time.Month(req.Month)),
		MonthlySetTarget:  req.MonthlySetTarget,
		MonthlyHoldTarget: req.MonthlyHoldTarget,
		Active:            active,
	}

	if err := h.Store.SaveAssignment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(a))
}

// GetAssignment returns one quota contract.
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Assignment not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(*a))
}

// =============================================================================
// DASHBOARD / HISTORY HANDLERS
// =============================================================================

// GetDashboard returns one rep's numbers for the current or an explicit
// month.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rep := engine.RepID(chi.URLParam(r, "id"))

	in, ok := h.dashboardInput(w, r, rep)
	if !ok {
		return
	}

	dash := engine.ComputeDashboard(in)

	clients := make([]ClientProgressDTO, len(dash.Clients))
	for i, c := range dash.Clients {
		clients[i] = ClientProgressDTO{
			ClientID:     string(c.Client),
			SetGoal:      c.SetGoal,
			HeldGoal:     c.HeldGoal,
			MeetingsSet:  c.MeetingsSet,
			MeetingsHeld: c.MeetingsHeld,
			SetPct:       c.SetPct,
			HeldPct:      c.HeldPct,
		}
	}

	writeJSON(w, http.StatusOK, DashboardDTO{
		Year:           dash.Month.Year,
		Month:          int(dash.Month.Month),
		MeetingsSet:    dash.Counts.MeetingsSet,
		MeetingsHeld:   dash.Counts.MeetingsHeld,
		Confirmed:      dash.Counts.Confirmed,
		Pending:        dash.Counts.Pending,
		NoShows:        dash.Counts.NoShows,
		PastDue:        dash.Counts.PastDue,
		SetGoal:        dash.SetGoal,
		HeldGoal:       dash.HeldGoal,
		SetPct:         dash.SetPct,
		HeldPct:        dash.HeldPct,
		CommissionGoal: dash.CommissionGoal,
		Commission:     dash.Commission.InexactFloat64(),
		Clients:        clients,
	})
}

// GetHistory returns the trailing month time series, oldest first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	rep := engine.RepID(chi.URLParam(r, "id"))

	months := 0
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid months parameter", err)
			return
		}
		months = n
	}

	in, ok := h.dashboardInput(w, r, rep)
	if !ok {
		return
	}

	series := engine.History(engine.HistoryInput{
		Snapshot:     in.Snapshot,
		Rep:          rep,
		Compensation: in.Compensation,
		Override:     in.Override,
		Months:       months,
		Now:          in.Now,
	})

	dtos := make([]HistoryEntryDTO, len(series))
	for i, s := range series {
		dtos[i] = HistoryEntryDTO{
			Year:         s.Month.Year,
			Month:        int(s.Month.Month),
			SetGoal:      s.SetGoal,
			HeldGoal:     s.HeldGoal,
			MeetingsSet:  s.MeetingsSet,
			MeetingsHeld: s.MeetingsHeld,
			ProgressPct:  s.ProgressPct,
			Commission:   s.Commission.InexactFloat64(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// WhatIfCommission answers the calculator tool: payout at a hypothetical
// held count, using the same pure function and override-aware goal as the
// dashboard.
func (h *Handler) WhatIfCommission(w http.ResponseWriter, r *http.Request) {
	rep := engine.RepID(chi.URLParam(r, "id"))

	var req WhatIfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.HeldCount < 0 {
		writeError(w, http.StatusBadRequest, "held_count must not be negative", nil)
		return
	}

	in, ok := h.dashboardInput(w, r, rep)
	if !ok {
		return
	}
	if req.Year != 0 && req.Month != 0 {
		m := engine.NewMonth(req.Year, time.Month(req.Month))
		in.Month = &m
	}

	window := engine.ResolveWindow(in.Now, in.Month)
	quotas := engine.RepQuotas(in.Snapshot.Assignments, rep, window.Month())
	goal := engine.EffectiveCommissionGoal(quotas.HeldGoal, in.Override)

	writeJSON(w, http.StatusOK, WhatIfDTO{
		HeldCount:      req.HeldCount,
		CommissionGoal: goal,
		Commission:     engine.Commission(req.HeldCount, goal, in.Compensation).InexactFloat64(),
	})
}

// dashboardInput gathers snapshot + compensation + override + month selector
// for one rep. A missing compensation structure becomes the zero scheme; a
// missing override stays nil.
func (h *Handler) dashboardInput(w http.ResponseWriter, r *http.Request, rep engine.RepID) (engine.DashboardInput, bool) {
	ctx := r.Context()

	snap, err := h.Store.TakeSnapshot(ctx, tenantOf(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return engine.DashboardInput{}, false
	}

	comp := engine.ZeroStructure(rep)
	if cs, err := h.Store.Compensation(ctx, rep); err == nil {
		comp = *cs
	} else if !engine.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to load compensation", err)
		return engine.DashboardInput{}, false
	}

	var override *engine.CommissionGoalOverride
	if o, err := h.Store.Override(ctx, rep); err == nil {
		override = o
	} else if !engine.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to load override", err)
		return engine.DashboardInput{}, false
	}

	in := engine.DashboardInput{
		Snapshot:     snap,
		Rep:          rep,
		Compensation: comp,
		Override:     override,
		Now:          h.now(),
	}

	q := r.URL.Query()
	if y, m := q.Get("year"), q.Get("month"); y != "" && m != "" {
		year, err1 := strconv.Atoi(y)
		month, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid year/month parameters", nil)
			return engine.DashboardInput{}, false
		}
		sel := engine.NewMonth(year, time.Month(month))
		in.Month = &sel
	}

	return in, true
}

// =============================================================================
// COMPENSATION HANDLERS
// =============================================================================

// SaveCompensation validates and stores a rep's pay scheme.
func (h *Handler) SaveCompensation(w http.ResponseWriter, r *http.Request) {
	rep := chi.URLParam(r, "id")

	var raw factory.CompensationJSON
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	raw.RepID = rep

	cs, err := factory.FromJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid compensation structure", err)
		return
	}

	if err := h.Store.SaveCompensation(r.Context(), cs); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save compensation", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(cs))
}

// GetCompensation returns a rep's pay scheme.
func (h *Handler) GetCompensation(w http.ResponseWriter, r *http.Request) {
	rep := engine.RepID(chi.URLParam(r, "id"))

	cs, err := h.Store.Compensation(r.Context(), rep)
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Compensation structure not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load compensation", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(*cs))
}

// SaveOverride sets the manual commission goal for a rep.
func (h *Handler) SaveOverride(w http.ResponseWriter, r *http.Request) {
	rep := engine.RepID(chi.URLParam(r, "id"))

	var req SaveOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CommissionGoal < 0 {
		writeError(w, http.StatusBadRequest, "commission_goal must not be negative", nil)
		return
	}

	o := engine.CommissionGoalOverride{RepID: rep, CommissionGoal: req.CommissionGoal}
	if err := h.Store.SaveOverride(r.Context(), o); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	writeJSON(w, http.StatusOK, OverrideDTO{RepID: string(rep), CommissionGoal: o.CommissionGoal})
}

// DeleteOverride clears the manual commission goal; the calculated held
// goal applies again.
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	rep := engine.RepID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteOverride(r.Context(), rep); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

// GetRevision returns the store's revision counter. Clients poll it and
// re-fetch when it moves.
func (h *Handler) GetRevision(w http.ResponseWriter, r *http.Request) {
	rev, err := h.Store.Revision(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read revision", err)
		return
	}
	writeJSON(w, http.StatusOK, RevisionDTO{Revision: rev})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
