package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

type ForumService struct {
	categories repositories.ForumCategoryRepository
	posts      repositories.ForumPostRepository
	comments   repositories.ForumCommentRepository
	callers    *CallerResolver
	activity   activityRecorder
}

func NewForumService(
	categories repositories.ForumCategoryRepository,
	posts repositories.ForumPostRepository,
	comments repositories.ForumCommentRepository,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *ForumService {
	return &ForumService{
		categories: categories,
		posts:      posts,
		comments:   comments,
		callers:    callers,
		activity:   activityRecorder{repo: activity, now: time.Now},
	}
}

func (s *ForumService) Categories(ctx context.Context) ([]*models.ForumCategory, error) {
	list, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to list forum categories", err)
	}
	return nonNil(list), nil
}

// ListPosts returns posts pinned first, then newest first.
func (s *ForumService) ListPosts(ctx context.Context, callerID uuid.UUID, categoryID *uuid.UUID) ([]dtos.PostResponse, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, categoryID)
	if err != nil {
		return nil, utils.Internal("Failed to list posts", err)
	}
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := s.comments.CountByPost(ctx, ids)
	if err != nil {
		return nil, utils.Internal("Failed to count comments", err)
	}

	out := make([]dtos.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse(p, callerID, counts[p.ID]))
	}
	return out, nil
}

// GetPost returns a post and counts the view.
func (s *ForumService) GetPost(ctx context.Context, callerID, id uuid.UUID) (*dtos.PostResponse, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementViews(ctx, id); err != nil {
		return nil, utils.Internal("Failed to record view", err)
	}
	p, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.comments.CountByPost(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, utils.Internal("Failed to count comments", err)
	}
	resp := postResponse(p, callerID, counts[id])
	return &resp, nil
}

func (s *ForumService) CreatePost(ctx context.Context, callerID uuid.UUID, req dtos.CreatePostRequest) (*dtos.PostResponse, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	postType := models.PostDiscussion
	if req.PostType != "" {
		postType = models.PostType(req.PostType)
	}
	if postType == models.PostAnnouncement && !caller.IsAdmin {
		return nil, utils.Forbidden("Only administrators can post announcements")
	}

	p := &models.ForumPost{
		ID:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   callerID,
		CategoryID: req.CategoryID,
		PostType:   postType,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, utils.PersistenceError("Failed to create post", err)
	}
	s.activity.record(ctx, callerID, models.ActivityCreate, models.TargetForumPost, &p.ID, "Created post "+p.Title)
	resp := postResponse(p, callerID, 0)
	return &resp, nil
}

func (s *ForumService) UpdatePost(ctx context.Context, callerID, id uuid.UUID, req dtos.UpdatePostRequest) (*dtos.PostResponse, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && (req.IsPinned != nil || req.IsLocked != nil) {
		return nil, utils.Forbidden("Only administrators can pin or lock posts")
	}
	if req.CategoryID != nil {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	var updated *models.ForumPost
	err = s.posts.UpdateWithRetry(ctx, id, func(p *models.ForumPost) error {
		if !caller.IsAdmin && p.AuthorID != callerID {
			return utils.Forbidden("Only the author can edit this post")
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Content != nil {
			p.Content = *req.Content
		}
		if req.CategoryID != nil {
			p.CategoryID = *req.CategoryID
		}
		if req.PostType != nil {
			pt := models.PostType(*req.PostType)
			if pt == models.PostAnnouncement && !caller.IsAdmin {
				return utils.Forbidden("Only administrators can post announcements")
			}
			p.PostType = pt
		}
		if req.IsPinned != nil {
			p.IsPinned = *req.IsPinned
		}
		if req.IsLocked != nil {
			p.IsLocked = *req.IsLocked
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Post")
	}
	s.activity.record(ctx, callerID, models.ActivityUpdate, models.TargetForumPost, &id, "Edited post "+updated.Title)
	resp := postResponse(updated, callerID, 0)
	return &resp, nil
}

func (s *ForumService) DeletePost(ctx context.Context, callerID, id uuid.UUID) error {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	p, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin && p.AuthorID != callerID {
		return utils.Forbidden("Only the author can delete this post")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return deleteError(err, "Post")
	}
	s.activity.record(ctx, callerID, models.ActivityDelete, models.TargetForumPost, &id, "Deleted post "+p.Title)
	return nil
}

func (s *ForumService) Upvote(ctx context.Context, callerID, id uuid.UUID) (*dtos.VoteSummary, error) {
	return s.vote(ctx, callerID, id, (*models.Votes).ToggleUpvote)
}

func (s *ForumService) Downvote(ctx context.Context, callerID, id uuid.UUID) (*dtos.VoteSummary, error) {
	return s.vote(ctx, callerID, id, (*models.Votes).ToggleDownvote)
}

func (s *ForumService) vote(ctx context.Context, callerID, id uuid.UUID, toggle func(*models.Votes, uuid.UUID)) (*dtos.VoteSummary, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	var summary dtos.VoteSummary
	err := s.posts.UpdateWithRetry(ctx, id, func(p *models.ForumPost) error {
		toggle(&p.Votes, callerID)
		summary = dtos.NewVoteSummary(&p.Votes, callerID)
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Post")
	}
	return &summary, nil
}

func (s *ForumService) ListComments(ctx context.Context, callerID, postID uuid.UUID) ([]dtos.CommentResponse, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, utils.Internal("Failed to list comments", err)
	}
	out := make([]dtos.CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dtos.CommentResponse{ForumComment: c, VoteSummary: dtos.NewVoteSummary(&c.Votes, callerID)})
	}
	return out, nil
}

func (s *ForumService) CreateComment(ctx context.Context, callerID uuid.UUID, req dtos.CreateCommentRequest) (*dtos.CommentResponse, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post.IsLocked && !caller.IsAdmin {
		return nil, invalidState("This post is locked")
	}
	if req.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, utils.Internal("Failed to load parent comment", err)
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, utils.BadRequest("Parent comment does not belong to this post")
		}
	}

	c := &models.ForumComment{
		ID:       uuid.New(),
		PostID:   post.ID,
		AuthorID: callerID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, utils.PersistenceError("Failed to create comment", err)
	}
	s.activity.record(ctx, callerID, models.ActivityCreate, models.TargetForumComment, &c.ID, "Commented on "+post.Title)
	return &dtos.CommentResponse{ForumComment: c, VoteSummary: dtos.NewVoteSummary(&c.Votes, callerID)}, nil
}

func (s *ForumService) UpdateComment(ctx context.Context, callerID, id uuid.UUID, req dtos.UpdateCommentRequest) (*dtos.CommentResponse, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	var updated *models.ForumComment
	err := s.comments.UpdateWithRetry(ctx, id, func(c *models.ForumComment) error {
		if c.AuthorID != callerID {
			return utils.Forbidden("Only the author can edit this comment")
		}
		c.Content = req.Content
		c.IsEdited = true
		updated = c
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Comment")
	}
	s.activity.record(ctx, callerID, models.ActivityUpdate, models.TargetForumComment, &id, "Edited comment")
	return &dtos.CommentResponse{ForumComment: updated, VoteSummary: dtos.NewVoteSummary(&updated.Votes, callerID)}, nil
}

func (s *ForumService) DeleteComment(ctx context.Context, callerID, id uuid.UUID) error {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return utils.Internal("Failed to load comment", err)
	}
	if c == nil {
		return utils.NotFound("Comment not found")
	}
	if !caller.IsAdmin && c.AuthorID != callerID {
		return utils.Forbidden("Only the author can delete this comment")
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return deleteError(err, "Comment")
	}
	s.activity.record(ctx, callerID, models.ActivityDelete, models.TargetForumComment, &id, "Deleted comment")
	return nil
}

func (s *ForumService) loadPost(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load post", err)
	}
	if p == nil {
		return nil, utils.NotFound("Post not found")
	}
	return p, nil
}

func (s *ForumService) requireCategory(ctx context.Context, id uuid.UUID) error {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return utils.Internal("Failed to load forum category", err)
	}
	if cat == nil || !cat.IsActive {
		return utils.BadRequest("Unknown forum category")
	}
	return nil
}

func postResponse(p *models.ForumPost, callerID uuid.UUID, comments int) dtos.PostResponse {
	return dtos.PostResponse{
		ForumPost:    p,
		VoteSummary:  dtos.NewVoteSummary(&p.Votes, callerID),
		CommentCount: comments,
	}
}
