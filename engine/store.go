/*
store.go - Persistence interfaces for the surrounding record store

PURPOSE:
  The engine computes over snapshots; these interfaces define how callers
  obtain them. Implementations live in store/sqlite (production) and
  store/memory (tests). The contract is point-in-time delivery: one call
  returns both meetings and assignments from a single consistent read, so
  quota-vs-actual numbers cannot skew across two fetches.

SEE ALSO:
  - store/sqlite/sqlite.go: SQLite implementation
  - store/memory/memory.go: In-memory implementation
*/
package engine

import "context"

// =============================================================================
// RECORD STORE - Snapshot supplier
// =============================================================================

// RecordStore supplies the full tenant record set and per-rep compensation
// configuration.
type RecordStore interface {
	// TakeSnapshot returns all meetings and assignments for a tenant from a
	// single consistent read.
	TakeSnapshot(ctx context.Context, tenantID string) (*Snapshot, error)

	// Compensation returns the rep's pay scheme, or ErrCompensationNotFound.
	Compensation(ctx context.Context, rep RepID) (*CompensationStructure, error)

	// Override returns the rep's commission goal override, or
	// ErrOverrideNotFound when none exists.
	Override(ctx context.Context, rep RepID) (*CommissionGoalOverride, error)
}

// =============================================================================
// MEETING STORE - Lifecycle persistence
// =============================================================================

// MeetingStore persists meeting records and their lifecycle transitions.
type MeetingStore interface {
	SaveMeeting(ctx context.Context, m Meeting) error
	GetMeeting(ctx context.Context, id MeetingID) (*Meeting, error)

	// DeleteMeeting is permanent and removes the record from all aggregates.
	DeleteMeeting(ctx context.Context, id MeetingID) error
}

// =============================================================================
// ASSIGNMENT STORE - Quota contract persistence
// =============================================================================

// AssignmentStore persists assignment rows. Deactivation, not deletion, is
// the normal removal path.
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a Assignment) error
	GetAssignment(ctx context.Context, id string) (*Assignment, error)
}

// =============================================================================
// COMPENSATION STORE - Pay scheme persistence
// =============================================================================

// CompensationStore persists compensation structures and overrides.
type CompensationStore interface {
	SaveCompensation(ctx context.Context, cs CompensationStructure) error
	SaveOverride(ctx context.Context, o CommissionGoalOverride) error
	DeleteOverride(ctx context.Context, rep RepID) error
}

// =============================================================================
// CHANGE NOTIFIER - Generic "something changed" signal
// =============================================================================

// ChangeNotifier exposes a monotonic revision that bumps on every write.
// Callers poll it and re-fetch a snapshot when it moves; there is no
// incremental-update contract. Re-running on the new snapshot is safe
// because the engine is pure and idempotent.
type ChangeNotifier interface {
	Revision(ctx context.Context) (uint64, error)
}
