package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/service"
)

// AuthHandler handles studio account authentication endpoints.
type AuthHandler struct {
	accounts service.AccountService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// SignupRequest represents a studio signup request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResendVerificationRequest asks for a new verification link.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Signup godoc
// @Summary Create a studio account
// @Description Creates an unverified free account with its default site and mails a verification link.
// @Tags account-auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} service.SignupResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /account/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.Signup(c.Request().Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Login godoc
// @Summary Sign in to the studio
// @Tags account-auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} service.Session
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /account/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, session)
}

// ResendVerification godoc
// @Summary Mail a new verification link
// @Description Always succeeds so that account existence is not revealed.
// @Tags account-auth
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "Email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /account/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req ResendVerificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true})
}

// VerifyEmail godoc
// @Summary Consume a verification link
// @Tags account-auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} service.Session
// @Failure 400 {object} errors.ErrorResponse
// @Router /account/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	session, err := h.accounts.VerifyEmail(c.Request().Context(), strings.TrimSpace(c.QueryParam("token")))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, session)
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags account-auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /account/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Logout(c.Request().Context(), claims); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "logged out"})
}

// Me godoc
// @Summary Current user, sites and billing summary
// @Tags account-auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /account/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Me(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}
