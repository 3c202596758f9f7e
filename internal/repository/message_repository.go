package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// messageRow carries a message plus display names resolved by the query.
type messageRow struct {
	models.Message
	SenderName   *string `db:"sender_name"`
	ReceiverName *string `db:"receiver_name"`
}

// MessageRepository handles persistence of direct and broadcast messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs the repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, sender_id, receiver_id, content, type, read, created_at)
        VALUES (:id, :sender_id, :receiver_id, :content, :type, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListVisible returns every message the user can see (sent, received, or
// broadcast) in chronological order, with display names resolved at read
// time. A missing referenced user renders as "Unknown", broadcasts as
// "All Users".
func (r *MessageRepository) ListVisible(ctx context.Context, userID string) ([]models.MessageView, error) {
	const query = `SELECT m.id, m.sender_id, m.receiver_id, m.content, m.type, m.read, m.created_at,
        s.name AS sender_name, rcv.name AS receiver_name
        FROM messages m
        LEFT JOIN users s ON s.id = m.sender_id
        LEFT JOIN users rcv ON rcv.id = m.receiver_id
        WHERE m.sender_id = $1 OR m.receiver_id = $1 OR m.type = $2
        ORDER BY m.created_at ASC`
	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, models.MessageTypeBroadcast); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	views := make([]models.MessageView, 0, len(rows))
	for _, row := range rows {
		view := models.MessageView{Message: row.Message}
		view.SenderName = displayName(row.SenderName)
		if row.Message.Type == models.MessageTypeBroadcast {
			view.ReceiverName = "All Users"
		} else {
			view.ReceiverName = displayName(row.ReceiverName)
		}
		views = append(views, view)
	}
	return views, nil
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return "Unknown"
	}
	return *name
}
