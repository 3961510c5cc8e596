/*
Package sqlite provides the SQLite-backed record store.

PURPOSE:
  Implements the persistence interfaces the engine computes over
  (RecordStore, MeetingStore, AssignmentStore, CompensationStore,
  ChangeNotifier). In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

SNAPSHOT CONSISTENCY:
  TakeSnapshot reads meetings and assignments inside one transaction, so
  the engine always sees a point-in-time view. Reading them from two
  separate fetches could skew quota-vs-actual numbers if a write landed
  between the reads.

CHANGE NOTIFICATION:
  Every write bumps a persisted revision counter in the same transaction.
  Clients poll Revision() and re-fetch a snapshot when it moves; the
  engine's purity makes re-running from scratch safe.

KEY TABLES:
  meetings:                  Meeting records with lifecycle timestamps
  assignments:               Per rep/client/month quota contracts
  compensation_structures:   One pay scheme per rep (tiers as JSON)
  commission_goal_overrides: Optional manual commission denominators
  meta:                      Revision counter

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/sdr.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/sdr-engine/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Interface checks
var (
	_ engine.RecordStore       = (*Store)(nil)
	_ engine.MeetingStore      = (*Store)(nil)
	_ engine.AssignmentStore   = (*Store)(nil)
	_ engine.CompensationStore = (*Store)(nil)
	_ engine.ChangeNotifier    = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		rep_id TEXT NOT NULL DEFAULT '',
		client_id TEXT NOT NULL,
		booked_at TEXT NOT NULL DEFAULT '',
		scheduled_at TEXT NOT NULL DEFAULT '',
		confirmed_at TEXT,
		held_at TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		no_show INTEGER NOT NULL DEFAULT 0,
		no_longer_interested INTEGER NOT NULL DEFAULT 0,
		icp_status TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_meetings_tenant ON meetings(tenant_id);
	CREATE INDEX IF NOT EXISTS idx_meetings_rep ON meetings(tenant_id, rep_id);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		rep_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		monthly_set_target INTEGER NOT NULL DEFAULT 0,
		monthly_hold_target INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_tenant ON assignments(tenant_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_rep_month ON assignments(tenant_id, rep_id, year, month);

	CREATE TABLE IF NOT EXISTS compensation_structures (
		rep_id TEXT PRIMARY KEY,
		commission_type TEXT NOT NULL,
		booked_rate TEXT NOT NULL DEFAULT '0',
		held_rate TEXT NOT NULL DEFAULT '0',
		goal_tiers TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS commission_goal_overrides (
		rep_id TEXT PRIMARY KEY,
		commission_goal INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO meta (key, value) VALUES ('revision', 0);
	`
	_, err := s.db.Exec(schema)
	return err
}

// bumpRevision increments the change counter inside the caller's transaction.
func bumpRevision(tx *sql.Tx) error {
	_, err := tx.Exec(`UPDATE meta SET value = value + 1 WHERE key = 'revision'`)
	return err
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// TakeSnapshot reads all tenant records in one transaction.
func (s *Store) TakeSnapshot(ctx context.Context, tenantID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	meetings, err := queryMeetings(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	assignments, err := queryAssignments(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}

	return &engine.Snapshot{
		Meetings:    meetings,
		Assignments: assignments,
		TakenAt:     time.Now().UTC(),
	}, nil
}

func queryMeetings(ctx context.Context, tx *sql.Tx, tenantID string) ([]engine.Meeting, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, tenant_id, rep_id, client_id, booked_at, scheduled_at,
		       confirmed_at, held_at, status, no_show, no_longer_interested, icp_status
		FROM meetings WHERE tenant_id = ? ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []engine.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func queryAssignments(ctx context.Context, tx *sql.Tx, tenantID string) ([]engine.Assignment, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, tenant_id, rep_id, client_id, year, month,
		       monthly_set_target, monthly_hold_target, is_active
		FROM assignments WHERE tenant_id = ? ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []engine.Assignment
	for rows.Next() {
		var a engine.Assignment
		var year, month int
		if err := rows.Scan(&a.ID, &a.TenantID, &a.RepID, &a.ClientID, &year, &month,
			&a.MonthlySetTarget, &a.MonthlyHoldTarget, &a.Active); err != nil {
			return nil, err
		}
		a.Month = engine.NewMonth(year, time.Month(month))
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// =============================================================================
// MEETINGS
// =============================================================================

func (s *Store) SaveMeeting(ctx context.Context, m engine.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meetings (id, tenant_id, rep_id, client_id, booked_at, scheduled_at,
			confirmed_at, held_at, status, no_show, no_longer_interested, icp_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			rep_id = excluded.rep_id,
			client_id = excluded.client_id,
			booked_at = excluded.booked_at,
			scheduled_at = excluded.scheduled_at,
			confirmed_at = excluded.confirmed_at,
			held_at = excluded.held_at,
			status = excluded.status,
			no_show = excluded.no_show,
			no_longer_interested = excluded.no_longer_interested,
			icp_status = excluded.icp_status`,
		m.ID, m.TenantID, m.RepID, m.ClientID,
		formatTime(m.BookedAt), formatTime(m.ScheduledAt),
		formatTimePtr(m.ConfirmedAt), formatTimePtr(m.HeldAt),
		m.Status, m.NoShow, m.NoLongerInterested, m.ICPStatus)
	if err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetMeeting(ctx context.Context, id engine.MeetingID) (*engine.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, rep_id, client_id, booked_at, scheduled_at,
		       confirmed_at, held_at, status, no_show, no_longer_interested, icp_status
		FROM meetings WHERE id = ?`, id)

	m, err := scanMeeting(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) DeleteMeeting(ctx context.Context, id engine.MeetingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrMeetingNotFound
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (s *Store) SaveAssignment(ctx context.Context, a engine.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assignments (id, tenant_id, rep_id, client_id, year, month,
			monthly_set_target, monthly_hold_target, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			rep_id = excluded.rep_id,
			client_id = excluded.client_id,
			year = excluded.year,
			month = excluded.month,
			monthly_set_target = excluded.monthly_set_target,
			monthly_hold_target = excluded.monthly_hold_target,
			is_active = excluded.is_active`,
		a.ID, a.TenantID, a.RepID, a.ClientID, a.Month.Year, int(a.Month.Month),
		a.MonthlySetTarget, a.MonthlyHoldTarget, a.Active)
	if err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetAssignment(ctx context.Context, id string) (*engine.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a engine.Assignment
	var year, month int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, rep_id, client_id, year, month,
		       monthly_set_target, monthly_hold_target, is_active
		FROM assignments WHERE id = ?`, id).
		Scan(&a.ID, &a.TenantID, &a.RepID, &a.ClientID, &year, &month,
			&a.MonthlySetTarget, &a.MonthlyHoldTarget, &a.Active)
	if err == sql.ErrNoRows {
		return nil, engine.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Month = engine.NewMonth(year, time.Month(month))
	return &a, nil
}

// =============================================================================
// COMPENSATION
// =============================================================================

func (s *Store) SaveCompensation(ctx context.Context, cs engine.CompensationStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tiers, err := json.Marshal(tiersToJSON(cs.GoalTiers))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compensation_structures (rep_id, commission_type, booked_rate, held_rate, goal_tiers)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(rep_id) DO UPDATE SET
			commission_type = excluded.commission_type,
			booked_rate = excluded.booked_rate,
			held_rate = excluded.held_rate,
			goal_tiers = excluded.goal_tiers`,
		cs.RepID, cs.Type,
		cs.MeetingRates.Booked.String(), cs.MeetingRates.Held.String(),
		string(tiers))
	if err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Compensation(ctx context.Context, rep engine.RepID) (*engine.CompensationStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		ctype              string
		bookedStr, heldStr string
		tiersJSON          string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT commission_type, booked_rate, held_rate, goal_tiers
		FROM compensation_structures WHERE rep_id = ?`, rep).
		Scan(&ctype, &bookedStr, &heldStr, &tiersJSON)
	if err == sql.ErrNoRows {
		return nil, engine.ErrCompensationNotFound
	}
	if err != nil {
		return nil, err
	}

	booked, err := decimal.NewFromString(bookedStr)
	if err != nil {
		return nil, fmt.Errorf("bad booked rate for %s: %w", rep, err)
	}
	held, err := decimal.NewFromString(heldStr)
	if err != nil {
		return nil, fmt.Errorf("bad held rate for %s: %w", rep, err)
	}
	var rawTiers []tierJSON
	if err := json.Unmarshal([]byte(tiersJSON), &rawTiers); err != nil {
		return nil, fmt.Errorf("bad goal tiers for %s: %w", rep, err)
	}
	tiers, err := tiersFromJSON(rawTiers)
	if err != nil {
		return nil, fmt.Errorf("bad goal tiers for %s: %w", rep, err)
	}

	return &engine.CompensationStructure{
		RepID:        rep,
		Type:         engine.CommissionType(ctype),
		MeetingRates: engine.MeetingRates{Booked: booked, Held: held},
		GoalTiers:    tiers,
	}, nil
}

func (s *Store) SaveOverride(ctx context.Context, o engine.CommissionGoalOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO commission_goal_overrides (rep_id, commission_goal)
		VALUES (?, ?)
		ON CONFLICT(rep_id) DO UPDATE SET commission_goal = excluded.commission_goal`,
		o.RepID, o.CommissionGoal)
	if err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Override(ctx context.Context, rep engine.RepID) (*engine.CommissionGoalOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var goal int
	err := s.db.QueryRowContext(ctx, `
		SELECT commission_goal FROM commission_goal_overrides WHERE rep_id = ?`, rep).
		Scan(&goal)
	if err == sql.ErrNoRows {
		return nil, engine.ErrOverrideNotFound
	}
	if err != nil {
		return nil, err
	}
	return &engine.CommissionGoalOverride{RepID: rep, CommissionGoal: goal}, nil
}

func (s *Store) DeleteOverride(ctx context.Context, rep engine.RepID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM commission_goal_overrides WHERE rep_id = ?`, rep); err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// CHANGE NOTIFIER
// =============================================================================

func (s *Store) Revision(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rev uint64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'revision'`).Scan(&rev)
	return rev, err
}

// =============================================================================
// SCAN/FORMAT HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row scanner) (engine.Meeting, error) {
	var (
		m                     engine.Meeting
		bookedStr, schedStr   string
		confirmedStr, heldStr sql.NullString
	)
	err := row.Scan(&m.ID, &m.TenantID, &m.RepID, &m.ClientID,
		&bookedStr, &schedStr, &confirmedStr, &heldStr,
		&m.Status, &m.NoShow, &m.NoLongerInterested, &m.ICPStatus)
	if err != nil {
		return engine.Meeting{}, err
	}
	m.BookedAt = parseTime(bookedStr)
	m.ScheduledAt = parseTime(schedStr)
	m.ConfirmedAt = parseTimeNull(confirmedStr)
	m.HeldAt = parseTimeNull(heldStr)
	return m, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseTime is forgiving: an empty or malformed timestamp yields the zero
// time, which the engine treats as ineligible for window counts rather than
// an error.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func parseTimeNull(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

type tierJSON struct {
	Percentage int    `json:"percentage"`
	Bonus      string `json:"bonus"`
}

func tiersToJSON(tiers []engine.GoalTier) []tierJSON {
	out := make([]tierJSON, len(tiers))
	for i, t := range tiers {
		out[i] = tierJSON{Percentage: t.Percentage, Bonus: t.Bonus.String()}
	}
	return out
}

func tiersFromJSON(raw []tierJSON) ([]engine.GoalTier, error) {
	tiers := make([]engine.GoalTier, len(raw))
	for i, t := range raw {
		bonus, err := decimal.NewFromString(t.Bonus)
		if err != nil {
			return nil, err
		}
		tiers[i] = engine.GoalTier{Percentage: t.Percentage, Bonus: bonus}
	}
	return tiers, nil
}
