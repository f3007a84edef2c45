package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/service"
)

// SiteHandler handles the sites of the signed in user.
type SiteHandler struct {
	sites  service.SiteService
	access service.AccessService
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(sites service.SiteService, access service.AccessService) *SiteHandler {
	return &SiteHandler{sites: sites, access: access}
}

// CreateSiteRequest names a new site.
type CreateSiteRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// SiteStatusRequest changes the publication state of a site.
type SiteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=preview launched"`
}

// DeleteSiteResponse reports what a site delete removed.
type DeleteSiteResponse struct {
	Success bool                     `json:"success"`
	Deleted *repository.SiteDeletion `json:"deleted"`
}

// RequireMember resolves :siteId for the signed in user and scopes the rest
// of the chain to that site. Non-members get 404.
func (h *SiteHandler) RequireMember(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := principal(c)
		if err != nil {
			return err
		}
		siteID, err := uuidParam(c, "siteId")
		if err != nil {
			return err
		}
		if _, err := h.access.Role(c.Request().Context(), userID, siteID); err != nil {
			return fail(err)
		}
		c.Set(ScopeKey, repository.SiteScope(siteID))
		return next(c)
	}
}

// List godoc
// @Summary Sites the user is a member of
// @Tags sites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Site
// @Router /account/sites [get]
func (h *SiteHandler) List(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	sites, err := h.sites.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, sites)
}

// Create godoc
// @Summary Create a site within the plan quota
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSiteRequest true "Site name"
// @Success 201 {object} model.Site
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /account/sites [post]
func (h *SiteHandler) Create(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	var req CreateSiteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	site, err := h.sites.Create(c.Request().Context(), userID, req.Name)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, site)
}

// UpdateStatus godoc
// @Summary Preview or launch a site
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param request body SiteStatusRequest true "Status"
// @Success 200 {object} model.Site
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/status [patch]
func (h *SiteHandler) UpdateStatus(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	siteID, err := uuidParam(c, "siteId")
	if err != nil {
		return err
	}
	var req SiteStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	site, err := h.sites.UpdateStatus(c.Request().Context(), userID, siteID, model.SiteStatus(req.Status))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, site)
}

// Delete godoc
// @Summary Delete a site and all of its content
// @Description Billing orders are kept.
// @Tags sites
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Success 200 {object} DeleteSiteResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId} [delete]
func (h *SiteHandler) Delete(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	siteID, err := uuidParam(c, "siteId")
	if err != nil {
		return err
	}

	deleted, err := h.sites.Delete(c.Request().Context(), userID, siteID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, DeleteSiteResponse{Success: true, Deleted: deleted})
}
