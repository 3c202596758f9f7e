package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
)

// AccountHandler serves the notification feed and user settings.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler creates a new handler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// Notifications godoc
// @Summary Notification feed for the caller
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/notifications [get]
func (h *AccountHandler) Notifications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	notifications, unread, err := h.service.Notifications(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"notifications": notifications, "unread_count": unread})
}

// GetSettings godoc
// @Summary Settings snapshot for the caller
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/settings [get]
func (h *AccountHandler) GetSettings(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"settings": settings})
}

// UpdateSettings godoc
// @Summary Update the caller's settings
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/settings [put]
func (h *AccountHandler) UpdateSettings(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var settings service.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No data provided"))
		return
	}

	saved, err := h.service.UpdateSettings(c.Request.Context(), claims.UserID, settings)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Settings updated successfully", "settings": saved})
}
