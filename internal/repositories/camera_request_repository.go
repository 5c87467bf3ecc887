package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/utils"
)

type CameraRequestFilter struct {
	Status      models.CameraRequestStatus
	RequesterID *uuid.UUID
}

type CameraRequestRepository interface {
	Create(ctx context.Context, cr *models.CameraRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CameraRequest, error)
	List(ctx context.Context, f CameraRequestFilter) ([]*models.CameraRequest, error)
	// Process records an administrator decision on a pending request. It
	// returns utils.ErrNoRowsUpdated when the request is no longer pending.
	Process(ctx context.Context, cr *models.CameraRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ExpireApproved marks approved requests whose access window ended.
	ExpireApproved(ctx context.Context, now time.Time) (int64, error)
}

type cameraRequestRepo struct {
	db DB
}

func NewCameraRequestRepository(db DB) CameraRequestRepository {
	return &cameraRequestRepo{db: db}
}

func (r *cameraRequestRepo) Create(ctx context.Context, cr *models.CameraRequest) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO camera_requests (
			id, requester_id, unit_id, reason, requested_date, requested_time,
			duration_hours, camera_location, status, requested_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW())
		RETURNING requested_at
	`,
		cr.ID, cr.RequesterID, cr.UnitID, cr.Reason, cr.RequestedDate, cr.RequestedTime,
		cr.DurationHours, cr.CameraLocation, cr.Status,
	).Scan(&cr.RequestedAt)
}

func (r *cameraRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CameraRequest, error) {
	return scanCameraRequest(r.db.QueryRow(ctx, baseSelectCameraRequest()+" WHERE id=$1", id))
}

func (r *cameraRequestRepo) List(ctx context.Context, f CameraRequestFilter) ([]*models.CameraRequest, error) {
	var w where
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.RequesterID != nil {
		w.add("requester_id=?", *f.RequesterID)
	}
	rows, err := r.db.Query(ctx, baseSelectCameraRequest()+w.sql()+" ORDER BY requested_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CameraRequest
	for rows.Next() {
		cr, err := scanCameraRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

func (r *cameraRequestRepo) Process(ctx context.Context, cr *models.CameraRequest) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE camera_requests
		SET status=$1, approval_details=$2, access_link=$3,
			processed_at=$4, processed_by=$5, expires_at=$6
		WHERE id=$7 AND status='pending'
	`, cr.Status, cr.ApprovalDetails, cr.AccessLink, cr.ProcessedAt, cr.ProcessedBy, cr.ExpiresAt, cr.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *cameraRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM camera_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cameraRequestRepo) ExpireApproved(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE camera_requests SET status='expired'
		WHERE status='approved' AND expires_at IS NOT NULL AND expires_at < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func baseSelectCameraRequest() string {
	return `
		SELECT id, requester_id, unit_id, reason, requested_date, requested_time,
			duration_hours, camera_location, status, approval_details, access_link,
			requested_at, processed_at, processed_by, expires_at
		FROM camera_requests`
}

func scanCameraRequest(row pgx.Row) (*models.CameraRequest, error) {
	var cr models.CameraRequest
	if err := row.Scan(
		&cr.ID, &cr.RequesterID, &cr.UnitID, &cr.Reason, &cr.RequestedDate, &cr.RequestedTime,
		&cr.DurationHours, &cr.CameraLocation, &cr.Status, &cr.ApprovalDetails, &cr.AccessLink,
		&cr.RequestedAt, &cr.ProcessedAt, &cr.ProcessedBy, &cr.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &cr, nil
}
