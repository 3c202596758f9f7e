package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type postRepository interface {
	List(ctx context.Context) ([]models.PostView, error)
	Create(ctx context.Context, post *models.Post) error
}

// PostService handles the public feed.
type PostService struct {
	repo      postRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(repo postRepository, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, validator: validate, logger: logger}
}

// CreatePostRequest describes the create payload.
type CreatePostRequest struct {
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"image_url"`
}

// List returns the feed, newest first.
func (s *PostService) List(ctx context.Context) ([]models.PostView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}
	return rows, nil
}

// Create stores a new feed post authored by the caller.
func (s *PostService) Create(ctx context.Context, authorID string, req CreatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	return post, nil
}
