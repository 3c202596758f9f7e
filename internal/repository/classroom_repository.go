package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// ClassroomRepository handles persistence of classrooms and their
// sub-resources (materials, assignments, enrollments).
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns all classrooms with teacher names, newest first.
func (r *ClassroomRepository) List(ctx context.Context) ([]models.ClassroomView, error) {
	const query = `SELECT c.id, c.name, c.code, c.description, c.teacher_id, c.created_at, u.name AS teacher_name
        FROM classrooms c
        LEFT JOIN users u ON u.id = c.teacher_id
        ORDER BY c.created_at DESC`
	var classrooms []models.ClassroomView
	if err := r.db.SelectContext(ctx, &classrooms, query); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// ListByStudent returns classrooms the user is enrolled in, up to limit.
func (r *ClassroomRepository) ListByStudent(ctx context.Context, userID string, limit int) ([]models.Classroom, error) {
	const query = `SELECT c.id, c.name, c.code, c.description, c.teacher_id, c.created_at
        FROM classrooms c
        JOIN enrollments e ON e.classroom_id = c.id
        WHERE e.user_id = $1
        ORDER BY c.name ASC LIMIT $2`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list student classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID returns a classroom by identifier.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, name, code, description, teacher_id, created_at FROM classrooms WHERE id = $1 LIMIT 1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find classroom by id: %w", err)
	}
	return &classroom, nil
}

// CodeExists reports whether a classroom already uses the given code.
func (r *ClassroomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM classrooms WHERE code = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check classroom code: %w", err)
	}
	return true, nil
}

// Create inserts a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	if classroom.CreatedAt.IsZero() {
		classroom.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO classrooms (id, name, code, description, teacher_id, created_at)
        VALUES (:id, :name, :code, :description, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// DeleteCascade removes a classroom together with its materials, assignments,
// enrollments and attendance rows in a single transaction.
func (r *ClassroomRepository) DeleteCascade(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin classroom delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	statements := []string{
		`DELETE FROM materials WHERE classroom_id = $1`,
		`DELETE FROM assignments WHERE classroom_id = $1`,
		`DELETE FROM enrollments WHERE classroom_id = $1`,
		`DELETE FROM attendance WHERE classroom_id = $1`,
		`DELETE FROM classrooms WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete classroom: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit classroom delete: %w", err)
	}
	return nil
}

// ListMaterials returns a classroom's materials, newest first.
func (r *ClassroomRepository) ListMaterials(ctx context.Context, classroomID string) ([]models.Material, error) {
	const query = `SELECT id, classroom_id, title, file_url, file_type, created_at FROM materials WHERE classroom_id = $1 ORDER BY created_at DESC`
	var materials []models.Material
	if err := r.db.SelectContext(ctx, &materials, query, classroomID); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}

// CreateMaterial inserts a new material record.
func (r *ClassroomRepository) CreateMaterial(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO materials (id, classroom_id, title, file_url, file_type, created_at)
        VALUES (:id, :classroom_id, :title, :file_url, :file_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// ListAssignments returns a classroom's assignments, newest first.
func (r *ClassroomRepository) ListAssignments(ctx context.Context, classroomID string) ([]models.Assignment, error) {
	const query = `SELECT id, classroom_id, title, description, due_date, created_at FROM assignments WHERE classroom_id = $1 ORDER BY created_at DESC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classroomID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// CreateAssignment inserts a new assignment.
func (r *ClassroomRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, classroom_id, title, description, due_date, created_at)
        VALUES (:id, :classroom_id, :title, :description, :due_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// CreateEnrollment links a student to a classroom.
func (r *ClassroomRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, user_id, classroom_id, created_at)
        VALUES (:id, :user_id, :classroom_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}
