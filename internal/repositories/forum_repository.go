package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

/* ───────────── categories ───────────── */

type ForumCategoryRepository interface {
	Create(ctx context.Context, c *models.ForumCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ForumCategory, error)
	GetByName(ctx context.Context, name string) (*models.ForumCategory, error)
	// ListActive returns active categories with their post counts.
	ListActive(ctx context.Context) ([]*models.ForumCategory, error)
}

type forumCategoryRepo struct {
	db DB
}

func NewForumCategoryRepository(db DB) ForumCategoryRepository {
	return &forumCategoryRepo{db: db}
}

func (r *forumCategoryRepo) Create(ctx context.Context, c *models.ForumCategory) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO forum_categories (id, name, description, color, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5, NOW())
		RETURNING created_at
	`, c.ID, c.Name, c.Description, c.Color, c.IsActive).Scan(&c.CreatedAt)
}

func (r *forumCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ForumCategory, error) {
	return scanForumCategory(r.db.QueryRow(ctx, baseSelectForumCategory()+" WHERE c.id=$1", id))
}

func (r *forumCategoryRepo) GetByName(ctx context.Context, name string) (*models.ForumCategory, error) {
	return scanForumCategory(r.db.QueryRow(ctx, baseSelectForumCategory()+" WHERE lower(c.name)=lower($1)", name))
}

func (r *forumCategoryRepo) ListActive(ctx context.Context) ([]*models.ForumCategory, error) {
	rows, err := r.db.Query(ctx, baseSelectForumCategory()+" WHERE c.is_active ORDER BY c.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ForumCategory
	for rows.Next() {
		c, err := scanForumCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func baseSelectForumCategory() string {
	return `
		SELECT c.id, c.name, c.description, c.color, c.is_active, c.created_at,
			(SELECT COUNT(*) FROM forum_posts p WHERE p.category_id = c.id)
		FROM forum_categories c`
}

func scanForumCategory(row pgx.Row) (*models.ForumCategory, error) {
	var c models.ForumCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.IsActive, &c.CreatedAt, &c.PostCount); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

/* ───────────── posts ───────────── */

type ForumPostRepository interface {
	Create(ctx context.Context, p *models.ForumPost) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ForumPost, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]*models.ForumPost, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error

	UpdateIfVersion(ctx context.Context, p *models.ForumPost, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ForumPost) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type forumPostRepo struct {
	*BaseVersionedRepo[*models.ForumPost]
	db DB
}

func NewForumPostRepository(db DB) ForumPostRepository {
	r := &forumPostRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectForumPost()+" WHERE id=$1", scanForumPost)
	return r
}

func (r *forumPostRepo) Create(ctx context.Context, p *models.ForumPost) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO forum_posts (
			id, title, content, author_id, category_id, post_type, is_pinned, is_locked,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		p.ID, p.Title, p.Content, p.AuthorID, p.CategoryID, p.PostType, p.IsPinned, p.IsLocked,
	).Scan(&p.CreatedAt, &p.UpdatedAt, &p.RowVersion)
}

func (r *forumPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *forumPostRepo) List(ctx context.Context, categoryID *uuid.UUID) ([]*models.ForumPost, error) {
	var w where
	if categoryID != nil {
		w.add("category_id=?", *categoryID)
	}
	rows, err := r.db.Query(ctx, baseSelectForumPost()+w.sql()+" ORDER BY is_pinned DESC, created_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ForumPost
	for rows.Next() {
		p, err := scanForumPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// IncrementViews does not bump row_version so reads never make writers retry.
func (r *forumPostRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE forum_posts SET views = views + 1 WHERE id=$1`, id)
	return err
}

func (r *forumPostRepo) UpdateIfVersion(ctx context.Context, p *models.ForumPost, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE forum_posts SET
			title=$1, content=$2, category_id=$3, post_type=$4, is_pinned=$5, is_locked=$6,
			upvoter_ids=$7::text[]::uuid[], downvoter_ids=$8::text[]::uuid[],
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$9 AND row_version=$10
	`,
		p.Title, p.Content, p.CategoryID, p.PostType, p.IsPinned, p.IsLocked,
		uuidStrings(p.UpvoterIDs), uuidStrings(p.DownvoterIDs),
		p.ID, expected,
	)
}

func (r *forumPostRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ForumPost) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *forumPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM forum_posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectForumPost() string {
	return `
		SELECT id, title, content, author_id, category_id, post_type, is_pinned, is_locked,
			upvoter_ids::text[], downvoter_ids::text[], views,
			created_at, updated_at, row_version
		FROM forum_posts`
}

func scanForumPost(row pgx.Row) (*models.ForumPost, error) {
	var (
		p        models.ForumPost
		up, down []string
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CategoryID, &p.PostType, &p.IsPinned, &p.IsLocked,
		&up, &down, &p.Views,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	votes, err := parseVotes(up, down)
	if err != nil {
		return nil, err
	}
	p.Votes = votes
	return &p, nil
}

/* ───────────── comments ───────────── */

type ForumCommentRepository interface {
	Create(ctx context.Context, c *models.ForumComment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.ForumComment, error)
	CountByPost(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error)

	UpdateIfVersion(ctx context.Context, c *models.ForumComment, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ForumComment) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type forumCommentRepo struct {
	*BaseVersionedRepo[*models.ForumComment]
	db DB
}

func NewForumCommentRepository(db DB) ForumCommentRepository {
	r := &forumCommentRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectForumComment()+" WHERE id=$1", scanForumComment)
	return r
}

func (r *forumCommentRepo) Create(ctx context.Context, c *models.ForumComment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO forum_comments (id, post_id, author_id, parent_id, content, created_at, updated_at, row_version)
		VALUES ($1,$2,$3,$4,$5, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`, c.ID, c.PostID, c.AuthorID, c.ParentID, c.Content).Scan(&c.CreatedAt, &c.UpdatedAt, &c.RowVersion)
}

func (r *forumCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *forumCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.ForumComment, error) {
	rows, err := r.db.Query(ctx, baseSelectForumComment()+" WHERE post_id=$1 ORDER BY created_at", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ForumComment
	for rows.Next() {
		c, err := scanForumComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *forumCommentRepo) CountByPost(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT post_id, COUNT(*) FROM forum_comments
		WHERE post_id = ANY($1::text[]::uuid[])
		GROUP BY post_id
	`, uuidStrings(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *forumCommentRepo) UpdateIfVersion(ctx context.Context, c *models.ForumComment, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE forum_comments SET
			content=$1, is_edited=$2,
			upvoter_ids=$3::text[]::uuid[], downvoter_ids=$4::text[]::uuid[],
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$5 AND row_version=$6
	`, c.Content, c.IsEdited, uuidStrings(c.UpvoterIDs), uuidStrings(c.DownvoterIDs), c.ID, expected)
}

func (r *forumCommentRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ForumComment) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *forumCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM forum_comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectForumComment() string {
	return `
		SELECT id, post_id, author_id, parent_id, content, is_edited,
			upvoter_ids::text[], downvoter_ids::text[],
			created_at, updated_at, row_version
		FROM forum_comments`
}

func scanForumComment(row pgx.Row) (*models.ForumComment, error) {
	var (
		c        models.ForumComment
		up, down []string
	)
	if err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Content, &c.IsEdited,
		&up, &down,
		&c.CreatedAt, &c.UpdatedAt, &c.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	votes, err := parseVotes(up, down)
	if err != nil {
		return nil, err
	}
	c.Votes = votes
	return &c, nil
}

func parseVotes(up, down []string) (models.Votes, error) {
	var (
		v   models.Votes
		err error
	)
	if v.UpvoterIDs, err = parseUUIDs(up); err != nil {
		return v, err
	}
	if v.DownvoterIDs, err = parseUUIDs(down); err != nil {
		return v, err
	}
	return v, nil
}
