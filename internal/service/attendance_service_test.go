package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records []models.Attendance
	rows    []models.AttendanceReportRow
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	record.ID = "att-new"
	m.records = append(m.records, *record)
	return nil
}

func (m *mockAttendanceRepo) SummaryForUser(ctx context.Context, userID string) (*models.AttendanceSummary, error) {
	return &models.AttendanceSummary{Present: 8, Total: 10, Percent: 80}, nil
}

func (m *mockAttendanceRepo) ReportForClassroom(ctx context.Context, classroomID string) ([]models.AttendanceReportRow, error) {
	return m.rows, nil
}

func TestAttendanceServiceMark(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, zap.NewNop())

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		ClassroomID: "class-1",
		UserID:      "student-1",
		Date:        "2026-03-02",
		Status:      "present",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
	assert.Equal(t, 2026, record.Date.Year())
}

func TestAttendanceServiceMarkInvalidStatus(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, zap.NewNop())

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		ClassroomID: "class-1",
		UserID:      "student-1",
		Date:        "2026-03-02",
		Status:      "vacationing",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid attendance status", appErrors.FromError(err).Message)
}

func TestAttendanceServiceMarkInvalidDate(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, zap.NewNop())

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		ClassroomID: "class-1",
		UserID:      "student-1",
		Date:        "02/03/2026",
		Status:      "present",
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAttendanceServiceExportCSV(t *testing.T) {
	repo := &mockAttendanceRepo{rows: []models.AttendanceReportRow{
		{StudentName: "Alice", Present: 8, Absent: 2, Total: 10, Percent: 80},
	}}
	svc := NewAttendanceService(repo, nil, zap.NewNop())

	data, contentType, err := svc.ExportReport(context.Background(), "class-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	csv := string(data)
	assert.True(t, strings.HasPrefix(csv, "Student,Present,Absent,Late,Excused,Total,Percent"))
	assert.Contains(t, csv, "Alice")
	assert.Contains(t, csv, "80.0%")
}

func TestAttendanceServiceExportPDF(t *testing.T) {
	repo := &mockAttendanceRepo{rows: []models.AttendanceReportRow{{StudentName: "Alice", Percent: 80}}}
	svc := NewAttendanceService(repo, nil, zap.NewNop())

	data, contentType, err := svc.ExportReport(context.Background(), "class-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestAttendanceServiceExportUnknownFormat(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, zap.NewNop())

	_, _, err := svc.ExportReport(context.Background(), "class-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAttendanceServiceReportRequiresClassroom(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, zap.NewNop())

	_, err := svc.Report(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
