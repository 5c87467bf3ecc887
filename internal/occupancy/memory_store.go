package occupancy

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nconnect/society-backend/internal/models"
)

// Step names accepted by MemoryStore.FailOn.
const (
	StepActiveAssignments = "active_assignments"
	StepRevokeAssignment  = "revoke_assignment"
	StepInsertAssignment  = "insert_assignment"
	StepSaveUnit          = "save_unit"
	StepAppendActivity    = "append_activity"
)

var ErrInjected = errors.New("injected store failure")

// MemoryStore is a Store kept in process memory. Transactions work on a
// copy of the state and swap it in on success. A single mutex stands in
// for the row lock.
type MemoryStore struct {
	mu          sync.Mutex
	units       map[uuid.UUID]*models.ResidenceUnit
	assignments []*models.OccupancyAssignment
	activity    []*models.ActivityLog
	failOn      string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{units: make(map[uuid.UUID]*models.ResidenceUnit)}
}

// PutUnit inserts or replaces a unit outside any transaction.
func (s *MemoryStore) PutUnit(u *models.ResidenceUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[u.ID] = u.Clone()
}

// Unit returns a copy of the committed unit, or nil.
func (s *MemoryStore) Unit(id uuid.UUID) *models.ResidenceUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	if !ok {
		return nil
	}
	return u.Clone()
}

// Units returns copies of every committed unit.
func (s *MemoryStore) Units() []*models.ResidenceUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ResidenceUnit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u.Clone())
	}
	return out
}

// Assignments returns copies of the committed assignments of a unit in
// insertion order.
func (s *MemoryStore) Assignments(unitID uuid.UUID) []*models.OccupancyAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.OccupancyAssignment
	for _, a := range s.assignments {
		if a.UnitID == unitID {
			out = append(out, cloneAssignment(a))
		}
	}
	return out
}

// Activity returns the committed activity entries.
func (s *MemoryStore) Activity() []*models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.activity)
}

// FailOn makes the next transactions fail at the named step. An empty
// step clears it.
func (s *MemoryStore) FailOn(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn = step
}

func (s *MemoryStore) WithUnit(ctx context.Context, unitID uuid.UUID, fn func(ctx context.Context, tx Tx, unit *models.ResidenceUnit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	u, ok := s.units[unitID]
	if !ok {
		return ErrUnitNotFound
	}

	tx := &memTx{
		unitID:      unitID,
		failOn:      s.failOn,
		unit:        u.Clone(),
		assignments: make([]*models.OccupancyAssignment, len(s.assignments)),
		activity:    slices.Clone(s.activity),
	}
	for i, a := range s.assignments {
		tx.assignments[i] = cloneAssignment(a)
	}

	if err := fn(ctx, tx, u.Clone()); err != nil {
		return err
	}

	s.units[unitID] = tx.unit
	s.assignments = tx.assignments
	s.activity = tx.activity
	return nil
}

func (s *MemoryStore) History(_ context.Context, unitID uuid.UUID) ([]*models.OccupancyAssignment, error) {
	out := s.Assignments(unitID)
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	return out, nil
}

type memTx struct {
	unitID      uuid.UUID
	failOn      string
	unit        *models.ResidenceUnit
	assignments []*models.OccupancyAssignment
	activity    []*models.ActivityLog
}

func (t *memTx) fail(step string) error {
	if t.failOn == step {
		return ErrInjected
	}
	return nil
}

func (t *memTx) ActiveAssignments(context.Context) ([]*models.OccupancyAssignment, error) {
	if err := t.fail(StepActiveAssignments); err != nil {
		return nil, err
	}
	var out []*models.OccupancyAssignment
	for _, a := range t.assignments {
		if a.UnitID == t.unitID && a.Active() {
			out = append(out, cloneAssignment(a))
		}
	}
	return out, nil
}

func (t *memTx) RevokeAssignment(_ context.Context, id uuid.UUID, at time.Time) error {
	if err := t.fail(StepRevokeAssignment); err != nil {
		return err
	}
	for _, a := range t.assignments {
		if a.ID == id && a.Active() {
			a.RevokedAt = &at
			return nil
		}
	}
	return errors.New("assignment not found or already revoked")
}

func (t *memTx) InsertAssignment(_ context.Context, a *models.OccupancyAssignment) error {
	if err := t.fail(StepInsertAssignment); err != nil {
		return err
	}
	for _, existing := range t.assignments {
		if existing.Active() && existing.UnitID == a.UnitID && existing.UserID == a.UserID && existing.Role == a.Role {
			return errors.New("duplicate active assignment")
		}
	}
	t.assignments = append(t.assignments, cloneAssignment(a))
	return nil
}

func (t *memTx) SaveUnit(_ context.Context, u *models.ResidenceUnit) error {
	if err := t.fail(StepSaveUnit); err != nil {
		return err
	}
	t.unit = u.Clone()
	return nil
}

func (t *memTx) AppendActivity(_ context.Context, l *models.ActivityLog) error {
	if err := t.fail(StepAppendActivity); err != nil {
		return err
	}
	entry := *l
	t.activity = append(t.activity, &entry)
	return nil
}

func cloneAssignment(a *models.OccupancyAssignment) *models.OccupancyAssignment {
	c := *a
	if a.RevokedAt != nil {
		at := *a.RevokedAt
		c.RevokedAt = &at
	}
	if a.AssignedBy != nil {
		by := *a.AssignedBy
		c.AssignedBy = &by
	}
	return &c
}
