package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type CommunityHandler struct {
	BaseHandler
	communityService services.CommunityService
}

func NewCommunityHandler(communityService services.CommunityService, logger utils.Logger) *CommunityHandler {
	return &CommunityHandler{
		BaseHandler:      NewBaseHandler(logger),
		communityService: communityService,
	}
}

// ListPosts returns the community feed
// @Summary Community feed
// @Tags community
// @Produce json
// @Success 200 {array} models.FeedPost
// @Router /community/posts [get]
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	feed, err := h.communityService.ListFeed(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// CreatePost publishes a post
// @Summary Create post
// @Tags community
// @Accept json
// @Produce json
// @Param post body validator.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} ErrorResponse
// @Router /community/posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req validator.CreatePostRequest
	if !h.bindJSON(c, &req) {
		return
	}

	post, err := h.communityService.CreatePost(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ToggleLike likes a post, or removes the like
// @Summary Toggle like
// @Tags community
// @Param id path string true "Post ID"
// @Success 200 {object} services.ToggleLikeResult
// @Failure 404 {object} ErrorResponse
// @Router /community/posts/{id}/like [post]
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.communityService.ToggleLike(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateComment comments on a post
// @Summary Comment on post
// @Tags community
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body validator.CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /community/posts/{id}/comments [post]
func (h *CommunityHandler) CreateComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req validator.CreateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	comment, err := h.communityService.CreateComment(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
