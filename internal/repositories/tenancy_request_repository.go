package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/utils"
)

type TenancyRequestFilter struct {
	Status   models.TenancyRequestStatus
	TenantID *uuid.UUID
	UnitID   *uuid.UUID
}

type TenancyRequestRepository interface {
	Create(ctx context.Context, tr *models.TenancyRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TenancyRequest, error)
	List(ctx context.Context, f TenancyRequestFilter) ([]*models.TenancyRequest, error)
	// Process moves a pending request to status. It returns
	// utils.ErrNoRowsUpdated when the request is no longer pending.
	Process(ctx context.Context, id uuid.UUID, status models.TenancyRequestStatus, by uuid.UUID, notes string, at time.Time) error
	// Reopen puts a processed request back to pending.
	Reopen(ctx context.Context, id uuid.UUID) error
}

type tenancyRequestRepo struct {
	db DB
}

func NewTenancyRequestRepository(db DB) TenancyRequestRepository {
	return &tenancyRequestRepo{db: db}
}

func (r *tenancyRequestRepo) Create(ctx context.Context, tr *models.TenancyRequest) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tenancy_requests (id, tenant_id, unit_id, status, message, requested_at)
		VALUES ($1,$2,$3,$4,$5, NOW())
		RETURNING requested_at
	`, tr.ID, tr.TenantID, tr.UnitID, tr.Status, tr.Message).Scan(&tr.RequestedAt)
}

func (r *tenancyRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TenancyRequest, error) {
	return scanTenancyRequest(r.db.QueryRow(ctx, baseSelectTenancyRequest()+" WHERE id=$1", id))
}

func (r *tenancyRequestRepo) List(ctx context.Context, f TenancyRequestFilter) ([]*models.TenancyRequest, error) {
	var w where
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.TenantID != nil {
		w.add("tenant_id=?", *f.TenantID)
	}
	if f.UnitID != nil {
		w.add("unit_id=?", *f.UnitID)
	}
	rows, err := r.db.Query(ctx, baseSelectTenancyRequest()+w.sql()+" ORDER BY requested_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.TenancyRequest
	for rows.Next() {
		tr, err := scanTenancyRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *tenancyRequestRepo) Process(ctx context.Context, id uuid.UUID, status models.TenancyRequestStatus, by uuid.UUID, notes string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tenancy_requests
		SET status=$1, processed_by=$2, processed_at=$3, admin_notes=$4
		WHERE id=$5 AND status='pending'
	`, status, by, at, notes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *tenancyRequestRepo) Reopen(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE tenancy_requests
		SET status='pending', processed_by=NULL, processed_at=NULL
		WHERE id=$1
	`, id)
	return err
}

func baseSelectTenancyRequest() string {
	return `
		SELECT id, tenant_id, unit_id, status, message, requested_at, processed_at, processed_by, admin_notes
		FROM tenancy_requests`
}

func scanTenancyRequest(row pgx.Row) (*models.TenancyRequest, error) {
	var tr models.TenancyRequest
	if err := row.Scan(
		&tr.ID, &tr.TenantID, &tr.UnitID, &tr.Status, &tr.Message,
		&tr.RequestedAt, &tr.ProcessedAt, &tr.ProcessedBy, &tr.AdminNotes,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tr, nil
}
