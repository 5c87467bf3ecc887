package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type ForumController struct {
	requestDecoder
	forumService *services.ForumService
}

func NewForumController(s *services.ForumService) *ForumController {
	return &ForumController{requestDecoder: newRequestDecoder(), forumService: s}
}

// GET /api/v1/forum/categories
func (c *ForumController) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := c.forumService.Categories(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cats)
}

// GET /api/v1/forum/posts
func (c *ForumController) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	categoryID, err := queryUUID(r, "category_id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	posts, err := c.forumService.ListPosts(r.Context(), callerID, categoryID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, posts)
}

// POST /api/v1/forum/posts
func (c *ForumController) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreatePostRequest
	if !c.decode(w, r, &req) {
		return
	}
	post, err := c.forumService.CreatePost(r.Context(), callerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, post)
}

// GET /api/v1/forum/posts/{id}
func (c *ForumController) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	post, err := c.forumService.GetPost(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}

// PATCH /api/v1/forum/posts/{id}
func (c *ForumController) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdatePostRequest
	if !c.decode(w, r, &req) {
		return
	}
	post, err := c.forumService.UpdatePost(r.Context(), callerID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}

// DELETE /api/v1/forum/posts/{id}
func (c *ForumController) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.forumService.DeletePost(r.Context(), callerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Post deleted", ID: id.String()})
}

// POST /api/v1/forum/posts/{id}/upvote
func (c *ForumController) UpvoteHandler(w http.ResponseWriter, r *http.Request) {
	c.vote(w, r, c.forumService.Upvote)
}

// POST /api/v1/forum/posts/{id}/downvote
func (c *ForumController) DownvoteHandler(w http.ResponseWriter, r *http.Request) {
	c.vote(w, r, c.forumService.Downvote)
}

func (c *ForumController) vote(
	w http.ResponseWriter,
	r *http.Request,
	toggle func(ctx context.Context, callerID, id uuid.UUID) (*dtos.VoteSummary, error),
) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	summary, err := toggle(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// GET /api/v1/forum/comments?post_id=
func (c *ForumController) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	postID, err := queryUUID(r, "post_id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if postID == nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "post_id is required", nil)
		return
	}
	comments, err := c.forumService.ListComments(r.Context(), callerID, *postID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, comments)
}

// POST /api/v1/forum/comments
func (c *ForumController) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateCommentRequest
	if !c.decode(w, r, &req) {
		return
	}
	comment, err := c.forumService.CreateComment(r.Context(), callerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

// PATCH /api/v1/forum/comments/{id}
func (c *ForumController) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateCommentRequest
	if !c.decode(w, r, &req) {
		return
	}
	comment, err := c.forumService.UpdateComment(r.Context(), callerID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, comment)
}

// DELETE /api/v1/forum/comments/{id}
func (c *ForumController) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.forumService.DeleteComment(r.Context(), callerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Comment deleted", ID: id.String()})
}
