package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type organizationRepository interface {
	FindByDomain(ctx context.Context, domain string) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
}

// OrganizationService handles tenant organizations.
type OrganizationService struct {
	repo      organizationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOrganizationService constructs the service.
func NewOrganizationService(repo organizationRepository, validate *validator.Validate, logger *zap.Logger) *OrganizationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{repo: repo, validator: validate, logger: logger}
}

// CreateOrganizationRequest describes the create payload.
type CreateOrganizationRequest struct {
	Name   string `json:"name" validate:"required"`
	Domain string `json:"domain"`
}

// Create registers a new organization. Domains are unique when present.
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*models.Organization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	org := &models.Organization{Name: strings.TrimSpace(req.Name)}
	if domain := strings.ToLower(strings.TrimSpace(req.Domain)); domain != "" {
		existing, err := s.repo.FindByDomain(ctx, domain)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check domain")
		}
		if existing != nil {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Organization with this domain already exists")
		}
		org.Domain = &domain
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create organization")
	}
	return org, nil
}
