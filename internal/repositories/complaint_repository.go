package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

type ComplaintFilter struct {
	Status   models.ComplaintStatus
	Priority models.Priority
	Category models.ComplaintCategory
	AuthorID *uuid.UUID
	UnitID   *uuid.UUID
}

type ComplaintRepository interface {
	Create(ctx context.Context, c *models.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	List(ctx context.Context, f ComplaintFilter) ([]*models.Complaint, error)

	UpdateIfVersion(ctx context.Context, c *models.Complaint, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Complaint) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type complaintRepo struct {
	*BaseVersionedRepo[*models.Complaint]
	db DB
}

func NewComplaintRepository(db DB) ComplaintRepository {
	r := &complaintRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectComplaint()+" WHERE id=$1", scanComplaint)
	return r
}

func (r *complaintRepo) Create(ctx context.Context, c *models.Complaint) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO complaints (
			id, author_id, unit_id, title, description, category, priority, status, location,
			estimated_resolution_date, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		c.ID, c.AuthorID, c.UnitID, c.Title, c.Description, c.Category, c.Priority, c.Status, c.Location,
		c.EstimatedResolutionDate,
	).Scan(&c.CreatedAt, &c.UpdatedAt, &c.RowVersion)
}

func (r *complaintRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *complaintRepo) List(ctx context.Context, f ComplaintFilter) ([]*models.Complaint, error) {
	var w where
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.Priority != "" {
		w.add("priority=?", f.Priority)
	}
	if f.Category != "" {
		w.add("category=?", f.Category)
	}
	if f.AuthorID != nil {
		w.add("author_id=?", *f.AuthorID)
	}
	if f.UnitID != nil {
		w.add("unit_id=?", *f.UnitID)
	}
	rows, err := r.db.Query(ctx, baseSelectComplaint()+w.sql()+" ORDER BY created_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *complaintRepo) UpdateIfVersion(ctx context.Context, c *models.Complaint, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE complaints SET
			title=$1, description=$2, category=$3, priority=$4, status=$5, location=$6,
			admin_response=$7, estimated_resolution_date=$8, actual_resolution_date=$9,
			satisfaction_rating=$10, feedback=$11, resolved_at=$12, resolved_by=$13,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$14 AND row_version=$15
	`,
		c.Title, c.Description, c.Category, c.Priority, c.Status, c.Location,
		c.AdminResponse, c.EstimatedResolutionDate, c.ActualResolutionDate,
		c.SatisfactionRating, c.Feedback, c.ResolvedAt, c.ResolvedBy,
		c.ID, expected,
	)
}

func (r *complaintRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Complaint) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *complaintRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectComplaint() string {
	return `
		SELECT id, author_id, unit_id, title, description, category, priority, status, location,
			admin_response, estimated_resolution_date, actual_resolution_date,
			satisfaction_rating, feedback, resolved_at, resolved_by,
			created_at, updated_at, row_version
		FROM complaints`
}

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	var c models.Complaint
	if err := row.Scan(
		&c.ID, &c.AuthorID, &c.UnitID, &c.Title, &c.Description, &c.Category, &c.Priority, &c.Status, &c.Location,
		&c.AdminResponse, &c.EstimatedResolutionDate, &c.ActualResolutionDate,
		&c.SatisfactionRating, &c.Feedback, &c.ResolvedAt, &c.ResolvedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
