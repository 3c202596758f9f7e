package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	FindDetailByID(ctx context.Context, id string) (*models.EventDetail, error)
	Create(ctx context.Context, event *models.Event) error
	FindRegistration(ctx context.Context, eventID, userID string) (*models.EventRegistration, error)
	CreateRegistration(ctx context.Context, reg *models.EventRegistration) error
}

type contextInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EventService handles event listing, creation and registration.
type EventService struct {
	repo      eventRepository
	cache     contextInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the service. The cache is optional.
func NewEventService(repo eventRepository, cache contextInvalidator, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// CreateEventRequest describes the create payload.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location"`
}

// RegisterEventRequest carries the optional attendee details.
type RegisterEventRequest struct {
	Phone         *string `json:"phone"`
	Dietary       *string `json:"dietary"`
	Accessibility *string `json:"accessibility"`
}

// List returns all events ordered by date ascending.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Get returns one event with its organizer name and registration count.
func (s *EventService) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch event")
	}
	return detail, nil
}

// Create stores a new event organized by the given user.
func (s *EventService) Create(ctx context.Context, organizerID string, organizationID *string, req CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	event := &models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Location:       req.Location,
		OrganizerID:    organizerID,
		OrganizationID: organizationID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.invalidateContextCache(ctx)
	return event, nil
}

// Register creates a registration for the caller. A user holds at most one
// registration per event; a second attempt fails without mutating state.
func (s *EventService) Register(ctx context.Context, eventID, userID string, req RegisterEventRequest) (*models.EventRegistration, error) {
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch event")
	}

	existing, err := s.repo.FindRegistration(ctx, eventID, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "Already registered")
	}

	reg := &models.EventRegistration{
		EventID:       eventID,
		UserID:        userID,
		Status:        models.RegistrationStatusRegistered,
		Phone:         req.Phone,
		Dietary:       req.Dietary,
		Accessibility: req.Accessibility,
	}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}
	return reg, nil
}

func (s *EventService) invalidateContextCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "chat:ctx:*"); err != nil {
		s.logger.Warn("failed to invalidate context cache", zap.Error(err))
	}
}
