package models

import "time"

// Classroom is owned by exactly one teacher. Its code is unique.
type Classroom struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClassroomView resolves the teacher name at read time.
type ClassroomView struct {
	Classroom
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// Material is a file reference attached to a classroom.
type Material struct {
	ID          string    `db:"id" json:"id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	Title       string    `db:"title" json:"title"`
	FileURL     string    `db:"file_url" json:"file_url"`
	FileType    string    `db:"file_type" json:"file_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Assignment belongs to a classroom. Due date is optional.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	ClassroomID string     `db:"classroom_id" json:"classroom_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Enrollment links a student to a classroom.
type Enrollment struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClassroomDetail bundles a classroom with its sub-resources.
type ClassroomDetail struct {
	Classroom   Classroom    `json:"classroom"`
	TeacherName *string      `json:"teacher_name,omitempty"`
	Materials   []Material   `json:"materials"`
	Assignments []Assignment `json:"assignments"`
}
