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

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userOrganizationRepository interface {
	FindByDomain(ctx context.Context, domain string) (*models.Organization, error)
}

// UserService handles account listing and signup.
type UserService struct {
	repo      userRepository
	orgs      userOrganizationRepository
	auth      *AuthService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the service. The organization repository is
// optional; without it new accounts are simply left unlinked.
func NewUserService(repo userRepository, orgs userOrganizationRepository, auth *AuthService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, orgs: orgs, auth: auth, validator: validate, logger: logger}
}

// SignupRequest describes the signup payload.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// List returns all users. Password hashes never leave the model layer.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Signup registers a new account. Duplicate emails are rejected before the
// write; the role defaults to student; when an organization matches the email
// domain the account is linked to it.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	email := NormalizeEmail(req.Email)
	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid role")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "User with this email already exists")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if org := s.matchOrganization(ctx, email); org != nil {
		user.OrganizationID = &org.ID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	token, err := s.auth.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) matchOrganization(ctx context.Context, email string) *models.Organization {
	if s.orgs == nil {
		return nil
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return nil
	}
	org, err := s.orgs.FindByDomain(ctx, email[at+1:])
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("organization lookup failed", zap.Error(err))
		}
		return nil
	}
	return org
}
