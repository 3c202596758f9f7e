package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Mark godoc
// @Summary Record attendance for a student
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No data provided"))
		return
	}

	record, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"attendance": record})
}

// Report godoc
// @Summary Per-student attendance summary for a classroom
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param classroom_id query string true "Classroom ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /attendance/report [get]
func (h *AttendanceHandler) Report(c *gin.Context) {
	rows, err := h.service.Report(c.Request.Context(), c.Query("classroom_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"report": rows})
}

// ExportReport godoc
// @Summary Download the classroom attendance report
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param classroom_id query string true "Classroom ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /attendance/report/export [get]
func (h *AttendanceHandler) ExportReport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.service.ExportReport(c.Request.Context(), c.Query("classroom_id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-report.%s", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
