package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
)

// PostHandler wires HTTP endpoints to the post service.
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a new handler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// List godoc
// @Summary Feed of posts, newest first
// @Tags Posts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts})
}

// Create godoc
// @Summary Create a feed post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePostRequest true "Post payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No data provided"))
		return
	}

	post, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"post": post})
}
