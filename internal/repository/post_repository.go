package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// PostRepository handles persistence of feed posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository constructs the repository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// List returns posts with author names, newest first.
func (r *PostRepository) List(ctx context.Context) ([]models.PostView, error) {
	const query = `SELECT p.id, p.author_id, p.content, p.image_url, p.likes, p.comments, p.created_at, u.name AS author_name
        FROM posts p
        LEFT JOIN users u ON u.id = p.author_id
        ORDER BY p.created_at DESC`
	var posts []models.PostView
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Create inserts a new post with zeroed counters.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO posts (id, author_id, content, image_url, likes, comments, created_at)
        VALUES (:id, :author_id, :content, :image_url, :likes, :comments, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}
