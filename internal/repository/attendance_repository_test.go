package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iomp-platform/iomp-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositorySummaryForUser(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	rows := sqlmock.NewRows([]string{"present", "absent", "late", "excused", "total"}).
		AddRow(8, 1, 1, 0, 10)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(rows)

	summary, err := repo.SummaryForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 8, summary.Present)
	require.Equal(t, 10, summary.Total)
	require.InDelta(t, 80.0, summary.Percent, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySummaryForUserEmpty(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	rows := sqlmock.NewRows([]string{"present", "absent", "late", "excused", "total"}).
		AddRow(0, 0, 0, 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(rows)

	summary, err := repo.SummaryForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Zero(t, summary.Total)
	require.Zero(t, summary.Percent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryReportForClassroom(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	rows := sqlmock.NewRows([]string{"user_id", "student_name", "present", "absent", "late", "excused", "total", "percent"}).
		AddRow("user-1", "Alice", 8, 2, 0, 0, 10, 80.0).
		AddRow("user-2", "Bob", 5, 5, 0, 0, 10, 50.0)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.classroom_id = $1")).
		WithArgs("class-1").
		WillReturnRows(rows)

	report, err := repo.ReportForClassroom(context.Background(), "class-1")
	require.NoError(t, err)
	require.Len(t, report, 2)
	require.Equal(t, "Alice", report[0].StudentName)
	require.InDelta(t, 50.0, report[1].Percent, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.Attendance{
		ClassroomID: "class-1",
		UserID:      "user-1",
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:      models.AttendanceStatusPresent,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
