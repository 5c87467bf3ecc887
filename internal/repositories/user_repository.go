package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

type UserFilter struct {
	Query    string
	IsActive *bool
	IsAdmin  *bool
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]*models.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)

	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUser()+" WHERE id=$1", r.scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (
			id, username, email, first_name, last_name, password_hash,
			is_active, is_admin, phone_number, bio,
			emergency_contact_name, emergency_contact_phone, force_password_change,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.IsActive, u.IsAdmin, u.PhoneNumber, u.Bio,
		u.EmergencyContactName, u.EmergencyContactPhone, u.ForcePasswordChange,
	)
	return row.Scan(&u.CreatedAt, &u.UpdatedAt, &u.RowVersion)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE lower(username)=lower($1)", username)
	return r.scanUser(row)
}

func (r *userRepo) List(ctx context.Context, f UserFilter) ([]*models.User, error) {
	var w where
	if f.Query != "" {
		p := likePattern(f.Query)
		w.add("(username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?)", p, p, p, p)
	}
	if f.IsActive != nil {
		w.add("is_active=?", *f.IsActive)
	}
	if f.IsAdmin != nil {
		w.add("is_admin=?", *f.IsAdmin)
	}
	rows, err := r.db.Query(ctx, baseSelectUser()+w.sql()+" ORDER BY username", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUsers(rows)
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, baseSelectUser()+" WHERE id = ANY($1::text[]::uuid[]) ORDER BY username", uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUsers(rows)
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE users SET
			email=$1, first_name=$2, last_name=$3, password_hash=$4,
			is_active=$5, is_admin=$6, phone_number=$7, bio=$8,
			emergency_contact_name=$9, emergency_contact_phone=$10,
			force_password_change=$11,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$12 AND row_version=$13
	`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.IsActive, u.IsAdmin, u.PhoneNumber, u.Bio,
		u.EmergencyContactName, u.EmergencyContactPhone,
		u.ForcePasswordChange,
		u.ID, expected,
	)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectUser() string {
	return `
		SELECT id, username, email, first_name, last_name, password_hash,
			is_active, is_admin, phone_number, bio,
			emergency_contact_name, emergency_contact_phone, force_password_change,
			created_at, updated_at, row_version
		FROM users`
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsActive, &u.IsAdmin, &u.PhoneNumber, &u.Bio,
		&u.EmergencyContactName, &u.EmergencyContactPhone, &u.ForcePasswordChange,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) scanUsers(rows pgx.Rows) ([]*models.User, error) {
	var out []*models.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
