package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// PostHandler serves post authoring, scheduling, and publishing endpoints
type PostHandler struct {
	BaseHandler
	posts     *campaignapp.PostService
	publisher *socialapp.PublishService
}

func NewPostHandler(posts *campaignapp.PostService, publisher *socialapp.PublishService) *PostHandler {
	return &PostHandler{posts: posts, publisher: publisher}
}

func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.GET("", middleware.RequirePermission(identity.PermPostsRead), h.List)
	posts.GET("/calendar", middleware.RequirePermission(identity.PermPostsRead), h.Calendar)
	posts.POST("", middleware.RequirePermission(identity.PermPostsWrite), h.Create)
	posts.GET("/:id", middleware.RequirePermission(identity.PermPostsRead), h.Get)
	posts.PUT("/:id", middleware.RequirePermission(identity.PermPostsWrite), h.Update)
	posts.POST("/:id/schedule", middleware.RequirePermission(identity.PermPostsPublish), h.Schedule)
	posts.POST("/:id/unschedule", middleware.RequirePermission(identity.PermPostsPublish), h.Unschedule)
	posts.POST("/:id/publish", middleware.RequirePermission(identity.PermPostsPublish), h.Publish)
	posts.POST("/:id/retry", middleware.RequirePermission(identity.PermPostsPublish), h.Retry)
	posts.GET("/:id/publications", middleware.RequirePermission(identity.PermPostsRead), h.Publications)
	posts.DELETE("/:id", middleware.RequirePermission(identity.PermPostsWrite), h.Delete)
}

// Create creates a draft post under a non-archived campaign
func (h *PostHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input campaignapp.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.CreatedBy = actorID
	input.RequestIP = c.ClientIP()

	post, err := h.posts.CreatePost(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, post)
}

// List returns the agency's posts
func (h *PostHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.posts.ListPosts(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Calendar returns scheduled and published posts within a date range
func (h *PostHandler) Calendar(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req dateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	posts, err := h.posts.Calendar(c.Request.Context(), agencyID, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

// Get returns a single post
func (h *PostHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), agencyID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Update updates a draft post's content
func (h *PostHandler) Update(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	var input campaignapp.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ActorID = actorID
	input.RequestIP = c.ClientIP()

	post, err := h.posts.UpdatePost(c.Request.Context(), agencyID, postID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

type scheduleRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// Schedule queues the post for automatic publication at a future time
func (h *PostHandler) Schedule(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	post, err := h.posts.SchedulePost(c.Request.Context(), agencyID, actorID, postID, req.At)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Unschedule returns a scheduled post to draft
func (h *PostHandler) Unschedule(c *gin.Context) {
	h.lifecycle(c, h.posts.UnschedulePost)
}

// Retry returns a failed post to draft so it can be published again
func (h *PostHandler) Retry(c *gin.Context) {
	h.lifecycle(c, h.posts.RetryPost)
}

// Publish pushes the post to every connected account for its platforms
func (h *PostHandler) Publish(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	result, err := h.publisher.PublishPost(c.Request.Context(), agencyID, h.actorID(c), postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Publications returns per-platform publication records for a post
func (h *PostHandler) Publications(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	publications, err := h.publisher.ListPublications(c.Request.Context(), agencyID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, publications)
}

// Delete removes a draft or failed post
func (h *PostHandler) Delete(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), agencyID, actorID, postID, c.ClientIP()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PostHandler) lifecycle(c *gin.Context, op func(ctx context.Context, agencyID, actorID, postID uuid.UUID) (*campaignapp.PostDTO, error)) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	postID, ok := h.bindID(c)
	if !ok {
		return
	}

	post, err := op(c.Request.Context(), agencyID, actorID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}
