package models

import "time"

// AnnouncementPriority ranks announcements for display.
type AnnouncementPriority string

const (
	AnnouncementPriorityNormal AnnouncementPriority = "normal"
	AnnouncementPriorityHigh   AnnouncementPriority = "high"
	AnnouncementPriorityUrgent AnnouncementPriority = "urgent"
)

// Valid reports whether the priority is a supported value.
func (p AnnouncementPriority) Valid() bool {
	switch p {
	case AnnouncementPriorityNormal, AnnouncementPriorityHigh, AnnouncementPriorityUrgent:
		return true
	default:
		return false
	}
}

// Announcement represents a platform-wide notice authored by staff.
type Announcement struct {
	ID        string               `db:"id" json:"id"`
	Title     string               `db:"title" json:"title"`
	Content   string               `db:"content" json:"content"`
	Priority  AnnouncementPriority `db:"priority" json:"priority"`
	AuthorID  string               `db:"author_id" json:"author_id"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}

// AnnouncementView resolves the author name at read time.
type AnnouncementView struct {
	Announcement
	AuthorName *string `db:"author_name" json:"author_name,omitempty"`
}
