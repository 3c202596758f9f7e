package models

import "time"

// UserRole gates write permissions across the API.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the supported values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           UserRole  `db:"role" json:"role"`
	ProfilePicture string    `db:"profile_picture" json:"profile_picture"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Organization is an optional tenant grouping for users and content.
type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Domain    *string   `db:"domain" json:"domain,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
