package models

import "time"

// MessageType distinguishes direct messages from broadcasts.
type MessageType string

const (
	MessageTypeDirect    MessageType = "direct"
	MessageTypeBroadcast MessageType = "broadcast"
)

// Message is a direct or broadcast message. ReceiverID is nil iff the
// message is a broadcast.
type Message struct {
	ID         string      `db:"id" json:"id"`
	SenderID   string      `db:"sender_id" json:"sender_id"`
	ReceiverID *string     `db:"receiver_id" json:"receiver_id,omitempty"`
	Content    string      `db:"content" json:"content"`
	Type       MessageType `db:"type" json:"type"`
	Read       bool        `db:"read" json:"read"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// MessageView carries display names resolved at read time.
type MessageView struct {
	Message
	SenderName   string `json:"sender_name"`
	ReceiverName string `json:"receiver_name"`
}
