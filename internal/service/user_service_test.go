package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

type mockUserRepo struct {
	existing *models.User
	created  *models.User
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.existing == nil {
		return nil, sql.ErrNoRows
	}
	return m.existing, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	if m.existing == nil {
		return nil, nil
	}
	return []models.User{*m.existing}, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "user-new"
	m.created = user
	return nil
}

type mockOrgRepo struct {
	org *models.Organization
}

func (m *mockOrgRepo) FindByDomain(ctx context.Context, domain string) (*models.Organization, error) {
	if m.org == nil || m.org.Domain == nil || *m.org.Domain != domain {
		return nil, sql.ErrNoRows
	}
	return m.org, nil
}

func newUserService(repo *mockUserRepo, orgs *mockOrgRepo) *UserService {
	auth := NewAuthService(&mockAuthRepo{}, zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})
	return NewUserService(repo, orgs, auth, nil, zap.NewNop())
}

func TestUserServiceSignupSuccess(t *testing.T) {
	domain := "iomp.com"
	repo := &mockUserRepo{}
	orgs := &mockOrgRepo{org: &models.Organization{ID: "org-1", Name: "IOMP", Domain: &domain}}
	svc := newUserService(repo, orgs)

	res, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "New Student",
		Email:    "Student@IOMP.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "student@iomp.com", repo.created.Email)
	assert.Equal(t, models.RoleStudent, repo.created.Role)
	require.NotNil(t, repo.created.OrganizationID)
	assert.Equal(t, "org-1", *repo.created.OrganizationID)
	assert.NotEmpty(t, res.Token)

	// The stored hash must verify against the original password.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("password123")))
}

func TestUserServiceSignupDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{existing: &models.User{ID: "user-1", Email: "taken@iomp.com"}}
	svc := newUserService(repo, &mockOrgRepo{})

	_, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Dup",
		Email:    "taken@iomp.com",
		Password: "password123",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "User with this email already exists", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestUserServiceSignupShortPassword(t *testing.T) {
	svc := newUserService(&mockUserRepo{}, &mockOrgRepo{})

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "X", Email: "x@iomp.com", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestUserServiceSignupInvalidRole(t *testing.T) {
	svc := newUserService(&mockUserRepo{}, &mockOrgRepo{})

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "X", Email: "x@iomp.com", Password: "password123", Role: "superuser"})
	require.Error(t, err)
	assert.Equal(t, "Invalid role", appErrors.FromError(err).Message)
}

func TestUserServiceSignupNoMatchingOrganization(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo, &mockOrgRepo{})

	_, err := svc.Signup(context.Background(), SignupRequest{Name: "Solo", Email: "solo@elsewhere.net", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Nil(t, repo.created.OrganizationID)
}
