package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iomp-platform/iomp-api/internal/models"
	"github.com/iomp-platform/iomp-api/internal/service"
)

type authRepoStub struct {
	user *models.User
}

func (s *authRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) List(_ context.Context) ([]models.User, error) {
	return nil, nil
}

func (s *authRepoStub) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	return nil
}

type orgRepoStub struct{}

func (orgRepoStub) FindByDomain(_ context.Context, _ string) (*models.Organization, error) {
	return nil, sql.ErrNoRows
}

func newAuthRouter(t *testing.T, repo *authRepoStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService(repo, zap.NewNop(), service.AuthConfig{TokenSecret: "test-secret"})
	users := service.NewUserService(repo, orgRepoStub{}, auth, validator.New(), zap.NewNop())
	h := NewAuthHandler(auth, users)

	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/signup", h.Signup)
	return router
}

func performRequest(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := &authRepoStub{user: &models.User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@iomp.com",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}}
	router := newAuthRouter(t, repo)

	resp := performRequest(router, http.MethodPost, "/auth/login", []byte(`{"email":"Alice@IOMP.com","password":"secret123"}`))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "Login successful", body.Message)
	require.NotEmpty(t, body.Token)
	require.Equal(t, "user-1", body.User.ID)
}

func TestAuthHandlerLoginFieldErrors(t *testing.T) {
	router := newAuthRouter(t, &authRepoStub{})

	resp := performRequest(router, http.MethodPost, "/auth/login", []byte(`{"email":"not-an-email","password":""}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Len(t, body.Errors, 2)
	require.Equal(t, "email", body.Errors[0].Field)
	require.Equal(t, "Please provide a valid email", body.Errors[0].Message)
	require.Equal(t, "password", body.Errors[1].Field)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo := &authRepoStub{user: &models.User{
		ID:           "user-1",
		Email:        "alice@iomp.com",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}}
	router := newAuthRouter(t, repo)

	resp := performRequest(router, http.MethodPost, "/auth/login", []byte(`{"email":"alice@iomp.com","password":"wrong"}`))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), "Invalid email or password")
}

func TestAuthHandlerSignupSuccess(t *testing.T) {
	router := newAuthRouter(t, &authRepoStub{})

	resp := performRequest(router, http.MethodPost, "/auth/signup", []byte(`{"name":"Bob","email":"bob@iomp.com","password":"secret123"}`))
	require.Equal(t, http.StatusCreated, resp.Code)

	var body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "User registered successfully", body.Message)
	require.NotEmpty(t, body.Token)
	require.Equal(t, models.RoleStudent, body.User.Role)
}

func TestAuthHandlerSignupShortPassword(t *testing.T) {
	router := newAuthRouter(t, &authRepoStub{})

	resp := performRequest(router, http.MethodPost, "/auth/signup", []byte(`{"name":"Bob","email":"bob@iomp.com","password":"abc"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Password must be at least 6 characters long")
}
