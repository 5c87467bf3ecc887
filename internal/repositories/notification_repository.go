package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

type NotificationFilter struct {
	NotificationType models.NotificationType
	ActiveOnly       bool
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, f NotificationFilter) ([]*models.Notification, error)
	// MarkRead adds userID to read_by_ids once.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notifications (
			id, title, message, notification_type, priority, recipient_ids, read_by_ids,
			created_by, is_active, send_email, send_sms, created_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6::text[]::uuid[],'{}',$7,$8,$9,$10, NOW(), $11)
		RETURNING created_at
	`,
		n.ID, n.Title, n.Message, n.NotificationType, n.Priority, uuidStrings(n.RecipientIDs),
		n.CreatedBy, n.IsActive, n.SendEmail, n.SendSMS, n.ExpiresAt,
	).Scan(&n.CreatedAt)
}

func (r *notificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return scanNotification(r.db.QueryRow(ctx, baseSelectNotification()+" WHERE id=$1", id))
}

func (r *notificationRepo) List(ctx context.Context, f NotificationFilter) ([]*models.Notification, error) {
	var w where
	if f.NotificationType != "" {
		w.add("notification_type=?", f.NotificationType)
	}
	if f.ActiveOnly {
		w.add("is_active=TRUE")
		w.add("(expires_at IS NULL OR expires_at > NOW())")
	}
	rows, err := r.db.Query(ctx, baseSelectNotification()+w.sql()+" ORDER BY created_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET read_by_ids = CASE
			WHEN $2::uuid = ANY(read_by_ids) THEN read_by_ids
			ELSE array_append(read_by_ids, $2::uuid)
		END
		WHERE id=$1
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectNotification() string {
	return `
		SELECT id, title, message, notification_type, priority,
			recipient_ids::text[], read_by_ids::text[],
			created_by, is_active, send_email, send_sms, created_at, expires_at
		FROM notifications`
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var (
		n                  models.Notification
		recipients, readBy []string
	)
	if err := row.Scan(
		&n.ID, &n.Title, &n.Message, &n.NotificationType, &n.Priority,
		&recipients, &readBy,
		&n.CreatedBy, &n.IsActive, &n.SendEmail, &n.SendSMS, &n.CreatedAt, &n.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var err error
	if n.RecipientIDs, err = parseUUIDs(recipients); err != nil {
		return nil, err
	}
	if n.ReadByIDs, err = parseUUIDs(readBy); err != nil {
		return nil, err
	}
	return &n, nil
}
