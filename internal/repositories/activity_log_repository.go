package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/nconnect/society-backend/internal/models"
)

type ActivityFilter struct {
	UserID *uuid.UUID
	Action models.ActivityAction
	Limit  int
}

type ActivityLogRepository interface {
	Create(ctx context.Context, l *models.ActivityLog) error
	List(ctx context.Context, f ActivityFilter) ([]*models.ActivityLog, error)
}

type activityLogRepo struct {
	db DB
}

func NewActivityLogRepository(db DB) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertActivity(ctx context.Context, db execer, l *models.ActivityLog) error {
	_, err := db.Exec(ctx, `
		INSERT INTO activity_logs (
			id, user_id, action, description, target_type, target_id, ip_address, user_agent, timestamp
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, l.ID, l.UserID, l.Action, l.Description, l.TargetType, l.TargetID, l.IPAddress, l.UserAgent, l.Timestamp)
	return err
}

func (r *activityLogRepo) Create(ctx context.Context, l *models.ActivityLog) error {
	return insertActivity(ctx, r.db, l)
}

func (r *activityLogRepo) List(ctx context.Context, f ActivityFilter) ([]*models.ActivityLog, error) {
	var w where
	if f.UserID != nil {
		w.add("user_id=?", *f.UserID)
	}
	if f.Action != "" {
		w.add("action=?", f.Action)
	}
	sql := `
		SELECT id, user_id, action, description, target_type, target_id, ip_address, user_agent, timestamp
		FROM activity_logs` + w.sql() + " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		sql += " LIMIT " + w.arg(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Description, &l.TargetType, &l.TargetID, &l.IPAddress, &l.UserAgent, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
