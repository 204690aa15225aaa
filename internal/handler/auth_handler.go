package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovibe/internal/errors"
	"cryptovibe/internal/middleware"
	"cryptovibe/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService         service.AuthService
	registrationService service.RegistrationService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, registrationService service.RegistrationService) *AuthHandler {
	return &AuthHandler{authService: authService, registrationService: registrationService}
}

// RegisterRequest represents a user registration request. Content rules live
// in the registration service.
type RegisterRequest struct {
	Username        string  `json:"username" validate:"max=100"`
	Email           string  `json:"email" validate:"max=255"`
	Password        string  `json:"password" validate:"max=1024"`
	ConfirmPassword *string `json:"confirm_password,omitempty" validate:"omitempty,max=1024"`
	FullName        string  `json:"full_name,omitempty" validate:"max=255"`
	BirthDate       string  `json:"birth_date,omitempty" validate:"max=10"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} service.RegisterResult
// @Success 200 {object} service.RegisterResult "validation failed"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.registrationService.Register(c.Request().Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		BirthDate:       req.BirthDate,
	})
	if err != nil {
		return respondError(err)
	}

	status := http.StatusOK
	if res.Success {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}

// Login godoc
// @Summary Login and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} service.LoginResult "invalid credentials"
// @Failure 429 {object} map[string]interface{}
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, service.FailedLogin())
		}
		return respondError(err)
	}

	return c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary Revoke the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.RevokeSession(c.Request().Context(), middleware.SessionToken(c)); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
