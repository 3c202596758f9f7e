package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// AttendanceRepository handles persistence of attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts an attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (id, classroom_id, user_id, date, status, created_at)
        VALUES (:id, :classroom_id, :user_id, :date, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// SummaryForUser aggregates attendance counts across all classrooms.
func (r *AttendanceRepository) SummaryForUser(ctx context.Context, userID string) (*models.AttendanceSummary, error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE status = 'present') AS present,
        COUNT(*) FILTER (WHERE status = 'absent') AS absent,
        COUNT(*) FILTER (WHERE status = 'late') AS late,
        COUNT(*) FILTER (WHERE status = 'excused') AS excused,
        COUNT(*) AS total
        FROM attendance WHERE user_id = $1`
	var row struct {
		Present int `db:"present"`
		Absent  int `db:"absent"`
		Late    int `db:"late"`
		Excused int `db:"excused"`
		Total   int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, fmt.Errorf("summarise attendance: %w", err)
	}
	summary := &models.AttendanceSummary{
		Present: row.Present,
		Absent:  row.Absent,
		Late:    row.Late,
		Excused: row.Excused,
		Total:   row.Total,
	}
	if summary.Total > 0 {
		summary.Percent = float64(summary.Present) / float64(summary.Total) * 100
	}
	return summary, nil
}

// ReportForClassroom returns one summary row per student in the classroom.
func (r *AttendanceRepository) ReportForClassroom(ctx context.Context, classroomID string) ([]models.AttendanceReportRow, error) {
	const query = `SELECT a.user_id,
        COALESCE(u.name, 'Unknown') AS student_name,
        COUNT(*) FILTER (WHERE a.status = 'present') AS present,
        COUNT(*) FILTER (WHERE a.status = 'absent') AS absent,
        COUNT(*) FILTER (WHERE a.status = 'late') AS late,
        COUNT(*) FILTER (WHERE a.status = 'excused') AS excused,
        COUNT(*) AS total,
        ROUND(COUNT(*) FILTER (WHERE a.status = 'present') * 100.0 / COUNT(*), 2) AS percent
        FROM attendance a
        LEFT JOIN users u ON u.id = a.user_id
        WHERE a.classroom_id = $1
        GROUP BY a.user_id, u.name
        ORDER BY student_name ASC`
	var rows []models.AttendanceReportRow
	if err := r.db.SelectContext(ctx, &rows, query, classroomID); err != nil {
		return nil, fmt.Errorf("classroom attendance report: %w", err)
	}
	return rows, nil
}
