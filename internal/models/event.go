package models

import "time"

// RegistrationStatus tracks the lifecycle of an event registration.
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusAttended   RegistrationStatus = "attended"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
)

// Event represents an institutional event stored in the events table.
type Event struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	Date           time.Time `db:"date" json:"date"`
	Location       string    `db:"location" json:"location"`
	OrganizerID    string    `db:"organizer_id" json:"organizer_id"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// EventDetail extends an event with read-time metadata.
type EventDetail struct {
	Event
	OrganizerName     *string `db:"organizer_name" json:"organizer_name,omitempty"`
	RegistrationCount int     `db:"registration_count" json:"registration_count"`
}

// EventRegistration links a user to an event. One row per (event, user).
type EventRegistration struct {
	ID            string             `db:"id" json:"id"`
	EventID       string             `db:"event_id" json:"event_id"`
	UserID        string             `db:"user_id" json:"user_id"`
	Status        RegistrationStatus `db:"status" json:"status"`
	Phone         *string            `db:"phone" json:"phone,omitempty"`
	Dietary       *string            `db:"dietary" json:"dietary,omitempty"`
	Accessibility *string            `db:"accessibility" json:"accessibility,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
}
