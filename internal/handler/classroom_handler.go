package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
	"github.com/iomp-platform/iomp-api/pkg/storage"
)

// ClassroomHandler wires HTTP endpoints to the classroom service.
type ClassroomHandler struct {
	service *service.ClassroomService
}

// NewClassroomHandler creates a new handler.
func NewClassroomHandler(svc *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{service: svc}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	classrooms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classrooms": classrooms})
}

// Create godoc
// @Summary Create a classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Name and code are required"))
		return
	}

	classroom, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"classroom": classroom})
}

// Delete godoc
// @Summary Delete a classroom and its sub-resources
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /classrooms/{id} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Classroom deleted successfully"})
}

// Details godoc
// @Summary Classroom with its materials and assignments
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /classrooms/{id}/details [get]
func (h *ClassroomHandler) Details(c *gin.Context) {
	detail, err := h.service.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"classroom":    detail.Classroom,
		"teacher_name": detail.TeacherName,
		"materials":    detail.Materials,
		"assignments":  detail.Assignments,
	})
}

// UploadMaterial godoc
// @Summary Upload a material file to a classroom
// @Tags Classrooms
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Param title formData string true "Material title"
// @Param file formData file true "Material file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /classrooms/{id}/materials [post]
func (h *ClassroomHandler) UploadMaterial(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "File is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	req := service.CreateMaterialRequest{
		Title:    c.PostForm("title"),
		Filename: storage.SanitizeFilename(fileHeader.Filename),
		Reader:   file,
	}

	material, err := h.service.AddMaterial(c.Request.Context(), c.Param("id"), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"material": material})
}

// CreateAssignment godoc
// @Summary Create an assignment in a classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /classrooms/{id}/assignments [post]
func (h *ClassroomHandler) CreateAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Title is required"))
		return
	}

	req := service.CreateAssignmentRequest{
		Title:       payload.Title,
		Description: payload.Description,
	}
	if payload.DueDate != "" {
		due, err := parseDueDate(payload.DueDate)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid due date"))
			return
		}
		req.DueDate = &due
	}

	assignment, err := h.service.AddAssignment(c.Request.Context(), c.Param("id"), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"assignment": assignment})
}

// Enroll godoc
// @Summary Enroll the caller in a classroom
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /classrooms/{id}/enroll [post]
func (h *ClassroomHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{
		"message":    "Enrolled successfully",
		"enrollment": enrollment,
	})
}

// parseDueDate accepts RFC 3339 as well as the datetime-local format used by
// browser form inputs.
func parseDueDate(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
