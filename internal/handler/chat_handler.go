package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
)

// ChatHandler wires HTTP endpoints to the chatbot service.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new handler.
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Ask godoc
// @Summary One chatbot turn
// @Tags Chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body chatRequest true "Chat payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /chat [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Message is required"))
		return
	}

	reply, err := h.service.Ask(c.Request.Context(), claims.UserID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"reply": reply})
}

// History godoc
// @Summary The caller's recent chat turns, newest first
// @Tags Chatbot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	turns, err := h.service.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"history": turns})
}
