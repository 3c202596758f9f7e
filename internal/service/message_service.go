package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListVisible(ctx context.Context, userID string) ([]models.MessageView, error)
}

// MessageService handles direct and broadcast messaging.
type MessageService struct {
	repo      messageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(repo messageRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{repo: repo, validator: validate, logger: logger}
}

// SendMessageRequest describes the send payload. Receiver "all" selects a
// broadcast.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content" validate:"required"`
}

// List returns every message visible to the caller: sent, received, or
// broadcast, oldest first.
func (s *MessageService) List(ctx context.Context, userID string) ([]models.MessageView, error) {
	rows, err := s.repo.ListVisible(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return rows, nil
}

// Send stores a direct or broadcast message from the caller.
func (s *MessageService) Send(ctx context.Context, senderID string, req SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	message := &models.Message{
		SenderID: senderID,
		Content:  req.Content,
		Type:     models.MessageTypeDirect,
	}
	receiver := strings.TrimSpace(req.ReceiverID)
	switch {
	case receiver == "" || strings.EqualFold(receiver, "all"):
		message.Type = models.MessageTypeBroadcast
	default:
		message.ReceiverID = &receiver
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return message, nil
}
