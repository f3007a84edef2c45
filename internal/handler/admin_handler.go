package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/service"
)

// AdminHandler handles control panel authentication and the dashboard.
type AdminHandler struct {
	admin service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// AdminMeResponse identifies the signed in admin.
type AdminMeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login godoc
// @Summary Sign in to the control panel
// @Tags admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} service.Session
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/auth/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.admin.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, session)
}

// Logout godoc
// @Summary Revoke the presented admin token
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /admin/auth/logout [post]
func (h *AdminHandler) Logout(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}
	if err := h.admin.Logout(c.Request().Context(), claims); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "logged out"})
}

// Me godoc
// @Summary Current admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AdminMeResponse
// @Router /admin/auth/me [get]
func (h *AdminHandler) Me(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AdminMeResponse{ID: claims.Subject, Email: claims.Email, Role: string(claims.Scope)})
}

// Dashboard godoc
// @Summary Global project count, unread messages and last settings update
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, stats)
}
