package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type mockClassroomRepo struct {
	classroom      *models.Classroom
	codeTaken      bool
	created        *models.Classroom
	cascadeDeleted []string
	materials      []models.Material
	assignments    []models.Assignment
	enrollments    []models.Enrollment
}

func (m *mockClassroomRepo) List(ctx context.Context) ([]models.ClassroomView, error) {
	if m.classroom == nil {
		return nil, nil
	}
	return []models.ClassroomView{{Classroom: *m.classroom}}, nil
}

func (m *mockClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if m.classroom == nil || m.classroom.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.classroom, nil
}

func (m *mockClassroomRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	return m.codeTaken, nil
}

func (m *mockClassroomRepo) Create(ctx context.Context, classroom *models.Classroom) error {
	classroom.ID = "class-new"
	m.created = classroom
	return nil
}

func (m *mockClassroomRepo) DeleteCascade(ctx context.Context, id string) error {
	m.cascadeDeleted = append(m.cascadeDeleted, id)
	return nil
}

func (m *mockClassroomRepo) ListMaterials(ctx context.Context, classroomID string) ([]models.Material, error) {
	return m.materials, nil
}

func (m *mockClassroomRepo) CreateMaterial(ctx context.Context, material *models.Material) error {
	material.ID = "material-new"
	m.materials = append(m.materials, *material)
	return nil
}

func (m *mockClassroomRepo) ListAssignments(ctx context.Context, classroomID string) ([]models.Assignment, error) {
	return m.assignments, nil
}

func (m *mockClassroomRepo) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = "assignment-new"
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *mockClassroomRepo) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "enroll-new"
	m.enrollments = append(m.enrollments, *enrollment)
	return nil
}

type mockClassroomUsers struct {
	user *models.User
}

func (m *mockClassroomUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

type mockFileStore struct {
	saved string
}

func (m *mockFileStore) SaveStream(filename string, r io.Reader) (string, error) {
	m.saved = filename
	_, err := io.Copy(io.Discard, r)
	return filename, err
}

func newClassroomService(repo *mockClassroomRepo, store *mockFileStore) *ClassroomService {
	return NewClassroomService(repo, &mockClassroomUsers{user: &models.User{ID: "teacher-1", Name: "Ms. Crane"}}, store, "/uploads", nil, zap.NewNop())
}

func teacherClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTeacher}
}

func TestClassroomServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockClassroomRepo{codeTaken: true}
	svc := newClassroomService(repo, &mockFileStore{})

	_, err := svc.Create(context.Background(), "teacher-1", CreateClassroomRequest{Name: "Math", Code: "MATH101"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Classroom code already exists", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestClassroomServiceCreateUppercasesCode(t *testing.T) {
	repo := &mockClassroomRepo{}
	svc := newClassroomService(repo, &mockFileStore{})

	classroom, err := svc.Create(context.Background(), "teacher-1", CreateClassroomRequest{Name: "Math", Code: " math101 "})
	require.NoError(t, err)
	assert.Equal(t, "MATH101", classroom.Code)
	assert.Equal(t, "teacher-1", classroom.TeacherID)
}

func TestClassroomServiceDeleteRequiresOwner(t *testing.T) {
	repo := &mockClassroomRepo{classroom: &models.Classroom{ID: "class-1", TeacherID: "teacher-1"}}
	svc := newClassroomService(repo, &mockFileStore{})

	err := svc.Delete(context.Background(), "class-1", teacherClaims("intruder"))
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
	assert.Empty(t, repo.cascadeDeleted)

	require.NoError(t, svc.Delete(context.Background(), "class-1", teacherClaims("teacher-1")))
	assert.Equal(t, []string{"class-1"}, repo.cascadeDeleted)
}

func TestClassroomServiceDeleteAllowsAdmin(t *testing.T) {
	repo := &mockClassroomRepo{classroom: &models.Classroom{ID: "class-1", TeacherID: "teacher-1"}}
	svc := newClassroomService(repo, &mockFileStore{})

	err := svc.Delete(context.Background(), "class-1", &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
}

func TestClassroomServiceAddMaterial(t *testing.T) {
	repo := &mockClassroomRepo{classroom: &models.Classroom{ID: "class-1", TeacherID: "teacher-1"}}
	store := &mockFileStore{}
	svc := newClassroomService(repo, store)

	material, err := svc.AddMaterial(context.Background(), "class-1", teacherClaims("teacher-1"), CreateMaterialRequest{
		Title:    "Syllabus",
		Filename: "syllabus.pdf",
		Reader:   bytes.NewReader([]byte("content")),
	})
	require.NoError(t, err)
	assert.Equal(t, "syllabus.pdf", store.saved)
	assert.Equal(t, "/uploads/syllabus.pdf", material.FileURL)
	assert.Equal(t, "pdf", material.FileType)
}

func TestClassroomServiceAddMaterialRequiresFile(t *testing.T) {
	repo := &mockClassroomRepo{classroom: &models.Classroom{ID: "class-1", TeacherID: "teacher-1"}}
	svc := newClassroomService(repo, &mockFileStore{})

	_, err := svc.AddMaterial(context.Background(), "class-1", teacherClaims("teacher-1"), CreateMaterialRequest{Title: "Syllabus"})
	require.Error(t, err)
	assert.Equal(t, "File is required", appErrors.FromError(err).Message)
}

func TestClassroomServiceDetails(t *testing.T) {
	repo := &mockClassroomRepo{
		classroom:   &models.Classroom{ID: "class-1", Name: "Math", TeacherID: "teacher-1"},
		materials:   []models.Material{{ID: "m-1", Title: "Syllabus"}},
		assignments: []models.Assignment{{ID: "a-1", Title: "Homework 1"}},
	}
	svc := newClassroomService(repo, &mockFileStore{})

	detail, err := svc.Details(context.Background(), "class-1")
	require.NoError(t, err)
	require.NotNil(t, detail.TeacherName)
	assert.Equal(t, "Ms. Crane", *detail.TeacherName)
	assert.Len(t, detail.Materials, 1)
	assert.Len(t, detail.Assignments, 1)
}

func TestClassroomServiceEnroll(t *testing.T) {
	repo := &mockClassroomRepo{classroom: &models.Classroom{ID: "class-1", TeacherID: "teacher-1"}}
	svc := newClassroomService(repo, &mockFileStore{})

	enrollment, err := svc.Enroll(context.Background(), "class-1", "student-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", enrollment.UserID)
	assert.Len(t, repo.enrollments, 1)
}

func TestClassroomServiceEnrollMissingClassroom(t *testing.T) {
	repo := &mockClassroomRepo{}
	svc := newClassroomService(repo, &mockFileStore{})

	_, err := svc.Enroll(context.Background(), "nope", "student-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Classroom not found", appErr.Message)
}
