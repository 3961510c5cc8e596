// Package memory provides an in-memory RecordStore for testing and dev.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warp/sdr-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu          sync.RWMutex
	meetings    map[engine.MeetingID]engine.Meeting
	assignments map[string]engine.Assignment
	comp        map[engine.RepID]engine.CompensationStructure
	overrides   map[engine.RepID]engine.CommissionGoalOverride

	revision atomic.Uint64
}

func New() *Store {
	return &Store{
		meetings:    make(map[engine.MeetingID]engine.Meeting),
		assignments: make(map[string]engine.Assignment),
		comp:        make(map[engine.RepID]engine.CompensationStructure),
		overrides:   make(map[engine.RepID]engine.CommissionGoalOverride),
	}
}

// Interface checks
var (
	_ engine.RecordStore       = (*Store)(nil)
	_ engine.MeetingStore      = (*Store)(nil)
	_ engine.AssignmentStore   = (*Store)(nil)
	_ engine.CompensationStore = (*Store)(nil)
	_ engine.ChangeNotifier    = (*Store)(nil)
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// TakeSnapshot copies meetings and assignments under one read lock, so the
// result is a consistent point-in-time view.
func (s *Store) TakeSnapshot(_ context.Context, tenantID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var meetings []engine.Meeting
	for _, m := range s.meetings {
		if m.TenantID == tenantID {
			meetings = append(meetings, m)
		}
	}
	var assignments []engine.Assignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID {
			assignments = append(assignments, a)
		}
	}
	return &engine.Snapshot{Meetings: meetings, Assignments: assignments, TakenAt: time.Now().UTC()}, nil
}

// =============================================================================
// MEETINGS
// =============================================================================

func (s *Store) SaveMeeting(_ context.Context, m engine.Meeting) error {
	s.mu.Lock()
	s.meetings[m.ID] = m
	s.mu.Unlock()
	s.revision.Add(1)
	return nil
}

func (s *Store) GetMeeting(_ context.Context, id engine.MeetingID) (*engine.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[id]
	if !ok {
		return nil, engine.ErrMeetingNotFound
	}
	return &m, nil
}

func (s *Store) DeleteMeeting(_ context.Context, id engine.MeetingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[id]; !ok {
		return engine.ErrMeetingNotFound
	}
	delete(s.meetings, id)
	s.revision.Add(1)
	return nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (s *Store) SaveAssignment(_ context.Context, a engine.Assignment) error {
	s.mu.Lock()
	s.assignments[a.ID] = a
	s.mu.Unlock()
	s.revision.Add(1)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, id string) (*engine.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, engine.ErrAssignmentNotFound
	}
	return &a, nil
}

// =============================================================================
// COMPENSATION
// =============================================================================

func (s *Store) SaveCompensation(_ context.Context, cs engine.CompensationStructure) error {
	s.mu.Lock()
	s.comp[cs.RepID] = cs
	s.mu.Unlock()
	s.revision.Add(1)
	return nil
}

func (s *Store) Compensation(_ context.Context, rep engine.RepID) (*engine.CompensationStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.comp[rep]
	if !ok {
		return nil, engine.ErrCompensationNotFound
	}
	return &cs, nil
}

func (s *Store) SaveOverride(_ context.Context, o engine.CommissionGoalOverride) error {
	s.mu.Lock()
	s.overrides[o.RepID] = o
	s.mu.Unlock()
	s.revision.Add(1)
	return nil
}

func (s *Store) Override(_ context.Context, rep engine.RepID) (*engine.CommissionGoalOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[rep]
	if !ok {
		return nil, engine.ErrOverrideNotFound
	}
	return &o, nil
}

func (s *Store) DeleteOverride(_ context.Context, rep engine.RepID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, rep)
	s.revision.Add(1)
	return nil
}

// =============================================================================
// CHANGE NOTIFIER
// =============================================================================

func (s *Store) Revision(_ context.Context) (uint64, error) {
	return s.revision.Load(), nil
}
