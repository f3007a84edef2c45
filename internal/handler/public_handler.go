package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/service"
)

// PublicHandler serves the unauthenticated portfolio surface.
type PublicHandler struct {
	content  service.ContentService
	sites    service.SiteService
	messages service.MessageService
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(content service.ContentService, sites service.SiteService, messages service.MessageService) *PublicHandler {
	return &PublicHandler{content: content, sites: sites, messages: messages}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Content godoc
// @Summary Published portfolio content
// @Description Settings and published projects of the site with the given slug. Without a slug, or for an unknown one, the global portfolio is returned.
// @Tags public
// @Produce json
// @Param site query string false "Site slug"
// @Success 200 {object} service.Content
// @Router /public/content [get]
func (h *PublicHandler) Content(c echo.Context) error {
	ctx := c.Request().Context()
	scope := repository.GlobalScope()

	if slug := strings.TrimSpace(c.QueryParam("site")); slug != "" {
		site, err := h.sites.GetBySlug(ctx, slug)
		switch {
		case err == nil:
			scope = repository.SiteScope(site.ID)
		case !errors.Is(err, apperrors.ErrNotFound):
			return fail(err)
		}
	}

	content, err := h.content.Public(ctx, scope)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, content)
}

// SubmitMessage godoc
// @Summary Send a contact message
// @Tags public
// @Accept json
// @Produce json
// @Param site query string false "Site slug"
// @Param request body ContactRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Router /public/messages [post]
func (h *PublicHandler) SubmitMessage(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.Submit(c.Request().Context(), c.QueryParam("site"), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, msg)
}
