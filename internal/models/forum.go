package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type ForumCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
	PostCount   int       `json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type PostType string

const (
	PostDiscussion   PostType = "discussion"
	PostAnnouncement PostType = "announcement"
	PostQuestion     PostType = "question"
	PostPoll         PostType = "poll"
)

// Votes is the pair of voter sets shared by posts and comments. A user is
// in at most one of the two.
type Votes struct {
	UpvoterIDs   []uuid.UUID `json:"-"`
	DownvoterIDs []uuid.UUID `json:"-"`
}

func (v *Votes) Upvotes() int   { return len(v.UpvoterIDs) }
func (v *Votes) Downvotes() int { return len(v.DownvoterIDs) }
func (v *Votes) Score() int     { return v.Upvotes() - v.Downvotes() }

// ToggleUpvote removes an existing upvote, otherwise records one and drops
// any downvote by the same user.
func (v *Votes) ToggleUpvote(userID uuid.UUID) {
	if i := slices.Index(v.UpvoterIDs, userID); i >= 0 {
		v.UpvoterIDs = slices.Delete(v.UpvoterIDs, i, i+1)
		return
	}
	v.UpvoterIDs = append(v.UpvoterIDs, userID)
	if i := slices.Index(v.DownvoterIDs, userID); i >= 0 {
		v.DownvoterIDs = slices.Delete(v.DownvoterIDs, i, i+1)
	}
}

// ToggleDownvote mirrors ToggleUpvote.
func (v *Votes) ToggleDownvote(userID uuid.UUID) {
	if i := slices.Index(v.DownvoterIDs, userID); i >= 0 {
		v.DownvoterIDs = slices.Delete(v.DownvoterIDs, i, i+1)
		return
	}
	v.DownvoterIDs = append(v.DownvoterIDs, userID)
	if i := slices.Index(v.UpvoterIDs, userID); i >= 0 {
		v.UpvoterIDs = slices.Delete(v.UpvoterIDs, i, i+1)
	}
}

type ForumPost struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   uuid.UUID `json:"author_id"`
	CategoryID uuid.UUID `json:"category_id"`
	PostType   PostType  `json:"post_type"`
	IsPinned   bool      `json:"is_pinned"`
	IsLocked   bool      `json:"is_locked"`
	Views      int       `json:"views"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Votes
	Versioned
}

func (p *ForumPost) GetID() string { return p.ID.String() }

type ForumComment struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Content   string     `json:"content"`
	IsEdited  bool       `json:"is_edited"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Votes
	Versioned
}

func (c *ForumComment) GetID() string { return c.ID.String() }
