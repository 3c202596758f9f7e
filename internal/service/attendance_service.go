package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/export"
)

type attendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	SummaryForUser(ctx context.Context, userID string) (*models.AttendanceSummary, error)
	ReportForClassroom(ctx context.Context, classroomID string) ([]models.AttendanceReportRow, error)
}

// AttendanceService records attendance and builds classroom reports.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, validator: validate, logger: logger}
}

// MarkAttendanceRequest describes one attendance record.
type MarkAttendanceRequest struct {
	ClassroomID string `json:"classroom_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// Mark records a status for a user in a classroom on a date.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	status := models.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid attendance status")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid date, expected YYYY-MM-DD")
	}

	record := &models.Attendance{
		ClassroomID: req.ClassroomID,
		UserID:      req.UserID,
		Date:        date,
		Status:      status,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return record, nil
}

// Report returns per-student summary rows for a classroom.
func (s *AttendanceService) Report(ctx context.Context, classroomID string) ([]models.AttendanceReportRow, error) {
	if classroomID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom_id is required")
	}
	rows, err := s.repo.ReportForClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build report")
	}
	return rows, nil
}

// SummaryForUser aggregates a single student's attendance.
func (s *AttendanceService) SummaryForUser(ctx context.Context, userID string) (*models.AttendanceSummary, error) {
	summary, err := s.repo.SummaryForUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}
	return summary, nil
}

// ExportReport renders the classroom report as CSV or PDF.
func (s *AttendanceService) ExportReport(ctx context.Context, classroomID, format string) ([]byte, string, error) {
	rows, err := s.Report(ctx, classroomID)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Columns: []string{"Student", "Present", "Absent", "Late", "Excused", "Total", "Percent"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.StudentName,
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Absent),
			strconv.Itoa(row.Late),
			strconv.Itoa(row.Excused),
			strconv.Itoa(row.Total),
			fmt.Sprintf("%.1f%%", row.Percent),
		})
	}

	switch format {
	case "", "csv":
		data, err := export.RenderCSV(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := export.RenderPDF(table, "Attendance Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "Unsupported format, expected csv or pdf")
	}
}
