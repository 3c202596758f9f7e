package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
)

// OrganizationHandler wires HTTP endpoints to the organization service.
type OrganizationHandler struct {
	service *service.OrganizationService
}

// NewOrganizationHandler creates a new handler.
func NewOrganizationHandler(svc *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: svc}
}

// Create godoc
// @Summary Create an organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Param payload body service.CreateOrganizationRequest true "Organization payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req service.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No data provided"))
		return
	}

	org, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"organization": org})
}
