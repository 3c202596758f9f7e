package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// ChatRepository persists chatbot turns.
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository constructs the repository.
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create stores one chat turn.
func (r *ChatRepository) Create(ctx context.Context, turn *models.ChatMessage) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO chat_messages (id, user_id, message, response, created_at)
        VALUES (:id, :user_id, :message, :response, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, turn); err != nil {
		return fmt.Errorf("create chat message: %w", err)
	}
	return nil
}

// ListRecent returns the user's latest turns, most recent first.
func (r *ChatRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	const query = `SELECT id, user_id, message, response, created_at FROM chat_messages WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	var turns []models.ChatMessage
	if err := r.db.SelectContext(ctx, &turns, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	return turns, nil
}
