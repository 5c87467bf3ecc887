package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

type VehicleFilter struct {
	ResidentID  *uuid.UUID
	VehicleType models.VehicleType
	IsActive    *bool
}

// VehicleSearchHit is a vehicle joined with its resident and the units
// the resident occupies.
type VehicleSearchHit struct {
	Vehicle     *models.Vehicle
	OwnerName   string
	Username    string
	PhoneNumber *string
	UnitNumbers []string
}

type VehicleRepository interface {
	Create(ctx context.Context, v *models.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, f VehicleFilter) ([]*models.Vehicle, error)
	Search(ctx context.Context, query string, residentID *uuid.UUID, limit int) ([]*VehicleSearchHit, error)

	UpdateIfVersion(ctx context.Context, v *models.Vehicle, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Vehicle) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type vehicleRepo struct {
	*BaseVersionedRepo[*models.Vehicle]
	db DB
}

func NewVehicleRepository(db DB) VehicleRepository {
	r := &vehicleRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectVehicle()+" WHERE v.id=$1", scanVehicle)
	return r
}

func (r *vehicleRepo) Create(ctx context.Context, v *models.Vehicle) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO vehicles (
			id, resident_id, vehicle_number, vehicle_type, brand, model, color, year,
			insurance_expiry, pollution_expiry, parking_slot, is_active,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		v.ID, v.ResidentID, v.VehicleNumber, v.VehicleType, v.Brand, v.Model, v.Color, v.Year,
		v.InsuranceExpiry, v.PollutionExpiry, v.ParkingSlot, v.IsActive,
	).Scan(&v.CreatedAt, &v.UpdatedAt, &v.RowVersion)
}

func (r *vehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *vehicleRepo) List(ctx context.Context, f VehicleFilter) ([]*models.Vehicle, error) {
	var w where
	if f.ResidentID != nil {
		w.add("v.resident_id=?", *f.ResidentID)
	}
	if f.VehicleType != "" {
		w.add("v.vehicle_type=?", f.VehicleType)
	}
	if f.IsActive != nil {
		w.add("v.is_active=?", *f.IsActive)
	}
	rows, err := r.db.Query(ctx, baseSelectVehicle()+w.sql()+" ORDER BY v.created_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehicleRepo) Search(ctx context.Context, query string, residentID *uuid.UUID, limit int) ([]*VehicleSearchHit, error) {
	var w where
	p := likePattern(query)
	w.add(`(v.vehicle_number ILIKE ? OR v.brand ILIKE ? OR v.model ILIKE ?
		OR u.username ILIKE ? OR u.first_name ILIKE ? OR u.last_name ILIKE ?)`, p, p, p, p, p, p)
	w.add("v.is_active=TRUE")
	if residentID != nil {
		w.add("v.resident_id=?", *residentID)
	}
	sql := `
		SELECT v.id, v.resident_id, v.vehicle_number, v.vehicle_type, v.brand, v.model, v.color, v.year,
			v.insurance_expiry, v.pollution_expiry, v.parking_slot, v.is_active,
			v.created_at, v.updated_at, v.row_version,
			u.username, u.first_name, u.last_name, u.phone_number,
			ARRAY(
				SELECT ru.unit_number FROM residence_units ru
				WHERE ru.owner_id = v.resident_id OR v.resident_id = ANY(ru.tenant_ids)
				ORDER BY ru.unit_number
			)
		FROM vehicles v
		JOIN users u ON u.id = v.resident_id` + w.sql() + " ORDER BY v.vehicle_number LIMIT " + w.arg(limit)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*VehicleSearchHit
	for rows.Next() {
		var (
			v           models.Vehicle
			hit         VehicleSearchHit
			first, last string
		)
		if err := rows.Scan(
			&v.ID, &v.ResidentID, &v.VehicleNumber, &v.VehicleType, &v.Brand, &v.Model, &v.Color, &v.Year,
			&v.InsuranceExpiry, &v.PollutionExpiry, &v.ParkingSlot, &v.IsActive,
			&v.CreatedAt, &v.UpdatedAt, &v.RowVersion,
			&hit.Username, &first, &last, &hit.PhoneNumber, &hit.UnitNumbers,
		); err != nil {
			return nil, err
		}
		owner := models.User{Username: hit.Username, FirstName: first, LastName: last}
		hit.OwnerName = owner.FullName()
		hit.Vehicle = &v
		out = append(out, &hit)
	}
	return out, rows.Err()
}

func (r *vehicleRepo) UpdateIfVersion(ctx context.Context, v *models.Vehicle, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE vehicles SET
			vehicle_number=$1, vehicle_type=$2, brand=$3, model=$4, color=$5, year=$6,
			insurance_expiry=$7, pollution_expiry=$8, parking_slot=$9, is_active=$10,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$11 AND row_version=$12
	`,
		v.VehicleNumber, v.VehicleType, v.Brand, v.Model, v.Color, v.Year,
		v.InsuranceExpiry, v.PollutionExpiry, v.ParkingSlot, v.IsActive,
		v.ID, expected,
	)
}

func (r *vehicleRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Vehicle) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *vehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectVehicle() string {
	return `
		SELECT v.id, v.resident_id, v.vehicle_number, v.vehicle_type, v.brand, v.model, v.color, v.year,
			v.insurance_expiry, v.pollution_expiry, v.parking_slot, v.is_active,
			v.created_at, v.updated_at, v.row_version
		FROM vehicles v`
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := row.Scan(
		&v.ID, &v.ResidentID, &v.VehicleNumber, &v.VehicleType, &v.Brand, &v.Model, &v.Color, &v.Year,
		&v.InsuranceExpiry, &v.PollutionExpiry, &v.ParkingSlot, &v.IsActive,
		&v.CreatedAt, &v.UpdatedAt, &v.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}
