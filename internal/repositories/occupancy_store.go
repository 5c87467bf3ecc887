package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
)

type occupancyStore struct {
	db DB
}

// NewOccupancyStore is the Postgres occupancy.Store. Each WithUnit call is
// one transaction holding a FOR UPDATE lock on the unit row.
func NewOccupancyStore(db DB) occupancy.Store {
	return &occupancyStore{db: db}
}

func (s *occupancyStore) WithUnit(
	ctx context.Context,
	unitID uuid.UUID,
	fn func(ctx context.Context, tx occupancy.Tx, unit *models.ResidenceUnit) error,
) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	unit, err := scanUnit(tx.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1 FOR UPDATE", unitID))
	if err != nil {
		return err
	}
	if unit == nil {
		return occupancy.ErrUnitNotFound
	}

	return fn(ctx, &occupancyTx{tx: tx, unitID: unitID}, unit)
}

func (s *occupancyStore) History(ctx context.Context, unitID uuid.UUID) ([]*models.OccupancyAssignment, error) {
	rows, err := s.db.Query(ctx, baseSelectAssignment()+" WHERE unit_id=$1 ORDER BY assigned_at DESC", unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

type occupancyTx struct {
	tx     pgx.Tx
	unitID uuid.UUID
}

func (t *occupancyTx) ActiveAssignments(ctx context.Context) ([]*models.OccupancyAssignment, error) {
	rows, err := t.tx.Query(ctx,
		baseSelectAssignment()+" WHERE unit_id=$1 AND revoked_at IS NULL ORDER BY assigned_at", t.unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (t *occupancyTx) RevokeAssignment(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE occupancy_assignments SET revoked_at=$1 WHERE id=$2 AND revoked_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *occupancyTx) InsertAssignment(ctx context.Context, a *models.OccupancyAssignment) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO occupancy_assignments (id, unit_id, user_id, role, assigned_by, assigned_at, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, a.UnitID, a.UserID, a.Role, a.AssignedBy, a.AssignedAt, a.Notes)
	return err
}

func (t *occupancyTx) SaveUnit(ctx context.Context, u *models.ResidenceUnit) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE residence_units
		SET owner_id=$1, tenant_ids=$2::text[]::uuid[], is_occupied=$3,
			updated_at=$4, row_version=row_version+1
		WHERE id=$5
	`, u.OwnerID, uuidStrings(u.TenantIDs), u.IsOccupied, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *occupancyTx) AppendActivity(ctx context.Context, l *models.ActivityLog) error {
	return insertActivity(ctx, t.tx, l)
}

func baseSelectAssignment() string {
	return `
		SELECT id, unit_id, user_id, role, assigned_by, assigned_at, revoked_at, notes
		FROM occupancy_assignments`
}

func scanAssignment(row pgx.Row) (*models.OccupancyAssignment, error) {
	var a models.OccupancyAssignment
	if err := row.Scan(&a.ID, &a.UnitID, &a.UserID, &a.Role, &a.AssignedBy, &a.AssignedAt, &a.RevokedAt, &a.Notes); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func scanAssignments(rows pgx.Rows) ([]*models.OccupancyAssignment, error) {
	var out []*models.OccupancyAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
