package dtos

import (
	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/models"
)

type CreatePostRequest struct {
	Title      string    `json:"title" validate:"required,max=200"`
	Content    string    `json:"content" validate:"required,max=10000"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	PostType   string    `json:"post_type" validate:"omitempty,oneof=discussion announcement question poll"`
}

// UpdatePostRequest is an author edit. IsPinned and IsLocked are honoured
// for administrators only.
type UpdatePostRequest struct {
	Title      *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Content    *string    `json:"content,omitempty" validate:"omitempty,max=10000"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	PostType   *string    `json:"post_type,omitempty" validate:"omitempty,oneof=discussion announcement question poll"`
	IsPinned   *bool      `json:"is_pinned,omitempty"`
	IsLocked   *bool      `json:"is_locked,omitempty"`
}

type CreateCommentRequest struct {
	PostID   uuid.UUID  `json:"post_id" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Content  string     `json:"content" validate:"required,max=2000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// VoteSummary is the public view of a Votes pair. UserVote is "up",
// "down" or empty for the caller.
type VoteSummary struct {
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	Score     int    `json:"score"`
	UserVote  string `json:"user_vote,omitempty"`
}

func NewVoteSummary(v *models.Votes, caller uuid.UUID) VoteSummary {
	s := VoteSummary{Upvotes: v.Upvotes(), Downvotes: v.Downvotes(), Score: v.Score()}
	for _, id := range v.UpvoterIDs {
		if id == caller {
			s.UserVote = "up"
		}
	}
	for _, id := range v.DownvoterIDs {
		if id == caller {
			s.UserVote = "down"
		}
	}
	return s
}

type PostResponse struct {
	*models.ForumPost
	VoteSummary
	CommentCount int `json:"comment_count"`
}

type CommentResponse struct {
	*models.ForumComment
	VoteSummary
}
