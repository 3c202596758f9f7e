package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// AnnouncementRepository handles persistence of announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements with author names, newest first.
func (r *AnnouncementRepository) List(ctx context.Context) ([]models.AnnouncementView, error) {
	const query = `SELECT a.id, a.title, a.content, a.priority, a.author_id, a.created_at, u.name AS author_name
        FROM announcements a
        LEFT JOIN users u ON u.id = a.author_id
        ORDER BY a.created_at DESC`
	var announcements []models.AnnouncementView
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// ListRecent returns the latest announcements up to limit.
func (r *AnnouncementRepository) ListRecent(ctx context.Context, limit int) ([]models.Announcement, error) {
	const query = `SELECT id, title, content, priority, author_id, created_at FROM announcements ORDER BY created_at DESC LIMIT $1`
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, limit); err != nil {
		return nil, fmt.Errorf("list recent announcements: %w", err)
	}
	return announcements, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO announcements (id, title, content, priority, author_id, created_at)
        VALUES (:id, :title, :content, :priority, :author_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}
