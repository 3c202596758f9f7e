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

type mockAuthRepo struct {
	user           *models.User
	findByEmailErr error
	findByIDErr    error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return m.user, nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{user: &models.User{
		ID:           "user-1",
		Name:         "Student",
		Email:        "student@iomp.com",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "  Student@IOMP.com ", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleStudent, res.User.Role)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{user: &models.User{ID: "user-1", Email: "student@iomp.com", PasswordHash: string(hash)}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@iomp.com", Password: "nope"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Invalid email or password", appErr.Message)
}

func TestAuthServiceLoginUnknownEmailSameMessage(t *testing.T) {
	repo := &mockAuthRepo{findByEmailErr: sql.ErrNoRows}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@iomp.com", Password: "whatever"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Invalid email or password", appErr.Message)
}

func TestAuthServiceValidateTokenBadSignature(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{user: &models.User{ID: "user-1", Email: "a@b.com", PasswordHash: string(hash)}}
	issuer := newAuthService(repo)

	res, err := issuer.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	verifier := NewAuthService(repo, zap.NewNop(), AuthConfig{TokenSecret: "other-secret", TokenExpiry: time.Hour})
	_, err = verifier.ValidateToken(res.Token)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceCurrentUserGone(t *testing.T) {
	repo := &mockAuthRepo{findByIDErr: sql.ErrNoRows}
	svc := newAuthService(repo)

	_, err := svc.CurrentUser(context.Background(), &models.JWTClaims{UserID: "missing"})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestNormalizeEmailAndValidEmail(t *testing.T) {
	assert.Equal(t, "user@iomp.com", NormalizeEmail("  USER@IOMP.com "))
	assert.True(t, ValidEmail("student@iomp.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
}
