package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type classroomRepository interface {
	List(ctx context.Context) ([]models.ClassroomView, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	DeleteCascade(ctx context.Context, id string) error
	ListMaterials(ctx context.Context, classroomID string) ([]models.Material, error)
	CreateMaterial(ctx context.Context, material *models.Material) error
	ListAssignments(ctx context.Context, classroomID string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
}

type classroomUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type fileStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// ClassroomService handles classroom ownership and sub-resources.
type ClassroomService struct {
	repo         classroomRepository
	users        classroomUserRepository
	store        fileStore
	publicPrefix string
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewClassroomService constructs the service. publicPrefix is the URL path
// under which stored material files are addressed.
func NewClassroomService(repo classroomRepository, users classroomUserRepository, store fileStore, publicPrefix string, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &ClassroomService{
		repo:         repo,
		users:        users,
		store:        store,
		publicPrefix: publicPrefix,
		validator:    validate,
		logger:       logger,
	}
}

// CreateClassroomRequest describes the create payload.
type CreateClassroomRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
}

// CreateMaterialRequest describes a material upload. Reader is the file body.
type CreateMaterialRequest struct {
	Title    string
	Filename string
	Reader   io.Reader
}

// CreateAssignmentRequest describes the assignment payload.
type CreateAssignmentRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// List returns all classrooms with teacher names resolved.
func (s *ClassroomService) List(ctx context.Context) ([]models.ClassroomView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return rows, nil
}

// Create stores a new classroom owned by the given teacher. The code must be
// unique; a duplicate is rejected before the write.
func (s *ClassroomService) Create(ctx context.Context, teacherID string, req CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.repo.CodeExists(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check classroom code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "Classroom code already exists")
	}

	classroom := &models.Classroom{
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	if err := s.repo.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	return classroom, nil
}

// Delete removes a classroom and all of its materials, assignments,
// enrollments and attendance in one transaction. Only the owning teacher or
// an admin may delete.
func (s *ClassroomService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	classroom, err := s.findClassroom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(classroom, actor); err != nil {
		return err
	}
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom")
	}
	return nil
}

// Details returns a classroom with its materials and assignments.
func (s *ClassroomService) Details(ctx context.Context, id string) (*models.ClassroomDetail, error) {
	classroom, err := s.findClassroom(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.ClassroomDetail{Classroom: *classroom}
	if teacher, err := s.users.FindByID(ctx, classroom.TeacherID); err == nil {
		detail.TeacherName = &teacher.Name
	}

	materials, err := s.repo.ListMaterials(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	assignments, err := s.repo.ListAssignments(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	detail.Materials = materials
	detail.Assignments = assignments
	return detail, nil
}

// AddMaterial stores an uploaded file and records it against the classroom.
// Only the owning teacher or an admin may upload.
func (s *ClassroomService) AddMaterial(ctx context.Context, classroomID string, actor *models.JWTClaims, req CreateMaterialRequest) (*models.Material, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Title is required")
	}
	if req.Reader == nil || req.Filename == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "File is required")
	}

	classroom, err := s.findClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(classroom, actor); err != nil {
		return nil, err
	}

	stored, err := s.store.SaveStream(req.Filename, req.Reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	material := &models.Material{
		ClassroomID: classroomID,
		Title:       strings.TrimSpace(req.Title),
		FileURL:     path.Join(s.publicPrefix, stored),
		FileType:    strings.TrimPrefix(path.Ext(stored), "."),
	}
	if err := s.repo.CreateMaterial(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}
	return material, nil
}

// AddAssignment records a new assignment. Only the owning teacher or an
// admin may create one.
func (s *ClassroomService) AddAssignment(ctx context.Context, classroomID string, actor *models.JWTClaims, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	classroom, err := s.findClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(classroom, actor); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		ClassroomID: classroomID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Enroll joins a student to a classroom.
func (s *ClassroomService) Enroll(ctx context.Context, classroomID, userID string) (*models.Enrollment, error) {
	if _, err := s.findClassroom(ctx, classroomID); err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{ClassroomID: classroomID, UserID: userID}
	if err := s.repo.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	return enrollment, nil
}

func (s *ClassroomService) findClassroom(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch classroom")
	}
	return classroom, nil
}

func (s *ClassroomService) requireOwner(classroom *models.Classroom, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin || classroom.TeacherID == actor.UserID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "Only the classroom owner may do this")
}
