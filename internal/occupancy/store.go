package occupancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nconnect/society-backend/internal/models"
)

// Tx is the view of one locked unit inside a store transaction. Every write
// made through it is committed or discarded together.
type Tx interface {
	ActiveAssignments(ctx context.Context) ([]*models.OccupancyAssignment, error)
	RevokeAssignment(ctx context.Context, id uuid.UUID, at time.Time) error
	InsertAssignment(ctx context.Context, a *models.OccupancyAssignment) error
	SaveUnit(ctx context.Context, u *models.ResidenceUnit) error
	AppendActivity(ctx context.Context, l *models.ActivityLog) error
}

// Store runs fn inside a single transaction holding an exclusive lock on
// the unit. The unit handed to fn is a private copy. If fn returns an
// error nothing is persisted. A missing unit yields ErrUnitNotFound
// without calling fn.
type Store interface {
	WithUnit(ctx context.Context, unitID uuid.UUID, fn func(ctx context.Context, tx Tx, unit *models.ResidenceUnit) error) error
	History(ctx context.Context, unitID uuid.UUID) ([]*models.OccupancyAssignment, error)
}
