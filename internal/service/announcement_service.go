package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context) ([]models.AnnouncementView, error)
	Create(ctx context.Context, announcement *models.Announcement) error
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	cache     contextInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service. The cache is optional.
func NewAnnouncementService(repo announcementRepository, cache contextInvalidator, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// CreateAnnouncementRequest describes the create payload.
type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Priority string `json:"priority"`
}

// List returns all announcements, newest first, with author names resolved.
func (s *AnnouncementService) List(ctx context.Context) ([]models.AnnouncementView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return rows, nil
}

// Create stores a new announcement authored by the given user. Priority
// defaults to normal.
func (s *AnnouncementService) Create(ctx context.Context, authorID string, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	priority := models.AnnouncementPriority(req.Priority)
	if priority == "" {
		priority = models.AnnouncementPriorityNormal
	}
	if !priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid priority")
	}

	announcement := &models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		Priority: priority,
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "chat:ctx:*"); err != nil {
			s.logger.Warn("failed to invalidate context cache", zap.Error(err))
		}
	}
	return announcement, nil
}
