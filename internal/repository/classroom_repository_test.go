package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iomp-platform/iomp-api/internal/models"
)

func newClassroomRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassroomRepositoryCodeExists(t *testing.T) {
	db, mock, cleanup := newClassroomRepoMock(t)
	defer cleanup()

	repo := NewClassroomRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classrooms WHERE code = $1")).
		WithArgs("MATH101").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.CodeExists(context.Background(), "MATH101")
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classrooms WHERE code = $1")).
		WithArgs("PHY201").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.CodeExists(context.Background(), "PHY201")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryDeleteCascade(t *testing.T) {
	db, mock, cleanup := newClassroomRepoMock(t)
	defer cleanup()

	repo := NewClassroomRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materials WHERE classroom_id = $1")).
		WithArgs("class-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE classroom_id = $1")).
		WithArgs("class-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE classroom_id = $1")).
		WithArgs("class-1").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance WHERE classroom_id = $1")).
		WithArgs("class-1").WillReturnResult(sqlmock.NewResult(0, 9))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classrooms WHERE id = $1")).
		WithArgs("class-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "class-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryDeleteCascadeRollsBack(t *testing.T) {
	db, mock, cleanup := newClassroomRepoMock(t)
	defer cleanup()

	repo := NewClassroomRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materials WHERE classroom_id = $1")).
		WithArgs("class-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE classroom_id = $1")).
		WithArgs("class-1").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "class-1")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryCreateMaterial(t *testing.T) {
	db, mock, cleanup := newClassroomRepoMock(t)
	defer cleanup()

	repo := NewClassroomRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO materials")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	material := &models.Material{
		ClassroomID: "class-1",
		Title:       "Week 1 syllabus",
		FileURL:     "/uploads/syllabus.pdf",
		FileType:    "pdf",
	}
	require.NoError(t, repo.CreateMaterial(context.Background(), material))
	require.NotEmpty(t, material.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newClassroomRepoMock(t)
	defer cleanup()

	repo := NewClassroomRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "code", "description", "teacher_id", "created_at"}).
		AddRow("class-1", "Mathematics", "MATH101", "", "user-2", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("JOIN enrollments e ON e.classroom_id = c.id")).
		WithArgs("user-1", 5).
		WillReturnRows(rows)

	classrooms, err := repo.ListByStudent(context.Background(), "user-1", 5)
	require.NoError(t, err)
	require.Len(t, classrooms, 1)
	require.Equal(t, "MATH101", classrooms[0].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
