package models

import "time"

// ChatMessage stores one chatbot turn: the user input and the final reply.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	Response  string    `db:"response" json:"response"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatContext is the read-only aggregation of a user's academic data
// assembled before generating a reply. Every field may be empty: each
// sub-query degrades independently on failure.
type ChatContext struct {
	Attendance       *AttendanceSummary `json:"attendance,omitempty"`
	Classrooms       []Classroom        `json:"classrooms,omitempty"`
	RegisteredEvents []Event            `json:"registered_events,omitempty"`
	UpcomingEvents   []Event            `json:"upcoming_events,omitempty"`
	Announcements    []Announcement     `json:"announcements,omitempty"`
}
