package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

type UnitFilter struct {
	Building   string
	Floor      *int
	IsOccupied *bool
	Query      string
}

// UnitRepository covers the descriptive fields of a residence unit. Owner,
// tenants and is_occupied are written only by the occupancy store.
type UnitRepository interface {
	Create(ctx context.Context, u *models.ResidenceUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ResidenceUnit, error)
	GetByNumber(ctx context.Context, unitNumber string) (*models.ResidenceUnit, error)
	List(ctx context.Context, f UnitFilter) ([]*models.ResidenceUnit, error)
	ListByOccupant(ctx context.Context, userID uuid.UUID) ([]*models.ResidenceUnit, error)

	UpdateIfVersion(ctx context.Context, u *models.ResidenceUnit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ResidenceUnit) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type unitRepo struct {
	*BaseVersionedRepo[*models.ResidenceUnit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUnit()+" WHERE id=$1", scanUnit)
	return r
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.ResidenceUnit) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO residence_units (
			id, unit_number, owner_id, tenant_ids, is_occupied,
			building, floor, area_sqft, bedrooms, bathrooms,
			monthly_rent_paise, security_deposit_paise, lease_start, lease_end, description,
			created_at, updated_at, row_version
		) VALUES ($1,$2,NULL,'{}',FALSE,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		u.ID, u.UnitNumber,
		u.Building, u.Floor, u.AreaSqft, u.Bedrooms, u.Bathrooms,
		u.MonthlyRentPaise, u.SecurityDepositPaise, u.LeaseStart, u.LeaseEnd, u.Description,
	)
	u.OwnerID, u.TenantIDs, u.IsOccupied = nil, nil, false
	return row.Scan(&u.CreatedAt, &u.UpdatedAt, &u.RowVersion)
}

/* ---------- reads ---------- */

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ResidenceUnit, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *unitRepo) GetByNumber(ctx context.Context, unitNumber string) (*models.ResidenceUnit, error) {
	return scanUnit(r.db.QueryRow(ctx, baseSelectUnit()+" WHERE unit_number=$1", unitNumber))
}

func (r *unitRepo) List(ctx context.Context, f UnitFilter) ([]*models.ResidenceUnit, error) {
	var w where
	if f.Building != "" {
		w.add("building=?", f.Building)
	}
	if f.Floor != nil {
		w.add("floor=?", *f.Floor)
	}
	if f.IsOccupied != nil {
		w.add("is_occupied=?", *f.IsOccupied)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		w.add("(unit_number ILIKE ? OR building ILIKE ? OR description ILIKE ?)", p, p, p)
	}
	rows, err := r.db.Query(ctx, baseSelectUnit()+w.sql()+" ORDER BY building, floor, unit_number", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUnits(rows)
}

func (r *unitRepo) ListByOccupant(ctx context.Context, userID uuid.UUID) ([]*models.ResidenceUnit, error) {
	rows, err := r.db.Query(ctx,
		baseSelectUnit()+" WHERE owner_id=$1 OR $1 = ANY(tenant_ids) ORDER BY unit_number", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUnits(rows)
}

/* ---------- update / delete ---------- */

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.ResidenceUnit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE residence_units SET
			unit_number=$1, building=$2, floor=$3, area_sqft=$4, bedrooms=$5, bathrooms=$6,
			monthly_rent_paise=$7, security_deposit_paise=$8, lease_start=$9, lease_end=$10,
			description=$11, updated_at=NOW(), row_version=row_version+1
		WHERE id=$12 AND row_version=$13
	`,
		u.UnitNumber, u.Building, u.Floor, u.AreaSqft, u.Bedrooms, u.Bathrooms,
		u.MonthlyRentPaise, u.SecurityDepositPaise, u.LeaseStart, u.LeaseEnd,
		u.Description, u.ID, expected,
	)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ResidenceUnit) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM residence_units WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT id, unit_number, owner_id, tenant_ids::text[], is_occupied,
			building, floor, area_sqft, bedrooms, bathrooms,
			monthly_rent_paise, security_deposit_paise, lease_start, lease_end, description,
			created_at, updated_at, row_version
		FROM residence_units`
}

func scanUnit(row pgx.Row) (*models.ResidenceUnit, error) {
	var (
		u       models.ResidenceUnit
		tenants []string
	)
	if err := row.Scan(
		&u.ID, &u.UnitNumber, &u.OwnerID, &tenants, &u.IsOccupied,
		&u.Building, &u.Floor, &u.AreaSqft, &u.Bedrooms, &u.Bathrooms,
		&u.MonthlyRentPaise, &u.SecurityDepositPaise, &u.LeaseStart, &u.LeaseEnd, &u.Description,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	ids, err := parseUUIDs(tenants)
	if err != nil {
		return nil, err
	}
	u.TenantIDs = ids
	return &u, nil
}

func scanUnits(rows pgx.Rows) ([]*models.ResidenceUnit, error) {
	var out []*models.ResidenceUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
