package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iomp-platform/iomp-api/internal/models"
	"github.com/iomp-platform/iomp-api/internal/service"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No data provided"))
		return
	}

	if errs := loginFieldErrors(&req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// loginFieldErrors mirrors the login contract: a field-tagged error list for
// every missing or malformed field before credentials are checked.
func loginFieldErrors(req *models.LoginRequest) []response.FieldError {
	var errs []response.FieldError
	req.Email = service.NormalizeEmail(req.Email)
	if req.Email == "" {
		errs = append(errs, response.FieldError{Field: "email", Message: "Email is required"})
	} else if !service.ValidEmail(req.Email) {
		errs = append(errs, response.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if req.Password == "" {
		errs = append(errs, response.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// Signup godoc
// @Summary Register a new account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body service.SignupRequest true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No data provided"))
		return
	}

	if errs := signupFieldErrors(&req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	res, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "User registered successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

func signupFieldErrors(req *service.SignupRequest) []response.FieldError {
	var errs []response.FieldError
	req.Email = service.NormalizeEmail(req.Email)
	if req.Name == "" {
		errs = append(errs, response.FieldError{Field: "name", Message: "Name is required"})
	}
	if req.Email == "" {
		errs = append(errs, response.FieldError{Field: "email", Message: "Email is required"})
	} else if !service.ValidEmail(req.Email) {
		errs = append(errs, response.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, response.FieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}
	return errs
}

// Me godoc
// @Summary Current authenticated user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}
