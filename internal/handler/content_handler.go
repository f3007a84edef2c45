package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/model"
	"portfoliostudio/internal/service"
)

// ContentHandler edits settings and projects of the scope chosen by the route
// group: a site for studio routes, the global scope for admin routes.
type ContentHandler struct {
	content service.ContentService
}

// NewContentHandler creates a new content handler.
func NewContentHandler(content service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// ProjectLinkRequest is an extra link on a project card.
type ProjectLinkRequest struct {
	Label string `json:"label"`
	Href  string `json:"href" validate:"required,url"`
}

// ProjectRequest is the editable part of a project.
type ProjectRequest struct {
	Title        string               `json:"title" validate:"required"`
	Subtitle     string               `json:"subtitle" validate:"required"`
	Description  string               `json:"description" validate:"required"`
	Category     string               `json:"category" validate:"required"`
	Tags         []string             `json:"tags"`
	TechStack    []string             `json:"techStack"`
	ThumbnailURL *string              `json:"thumbnailUrl"`
	Gallery      []string             `json:"gallery"`
	GithubURL    *string              `json:"githubUrl" validate:"omitempty,url"`
	LiveURL      *string              `json:"liveUrl" validate:"omitempty,url"`
	DownloadURL  *string              `json:"downloadUrl" validate:"omitempty,url"`
	CustomLinks  []ProjectLinkRequest `json:"customLinks" validate:"dive"`
	IsPublished  bool                 `json:"isPublished"`
	SortOrder    int                  `json:"sortOrder" validate:"gte=0"`
}

// ReorderItemRequest assigns a sort order to one project.
type ReorderItemRequest struct {
	ID        string `json:"id" validate:"required,uuid"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

// ReorderRequest is a batch of sort order changes.
type ReorderRequest struct {
	Items []ReorderItemRequest `json:"items" validate:"required,dive"`
}

type settingsChecks struct {
	SiteName     string `validate:"required"`
	ContactEmail string `validate:"omitempty,email"`
}

// optional maps blank strings to nil.
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (r ProjectRequest) toModel() *model.Project {
	links := make([]model.ProjectLink, 0, len(r.CustomLinks))
	for _, l := range r.CustomLinks {
		links = append(links, model.ProjectLink{Label: l.Label, Href: l.Href})
	}
	return &model.Project{
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Description:  r.Description,
		Category:     r.Category,
		Tags:         r.Tags,
		TechStack:    r.TechStack,
		ThumbnailURL: optional(r.ThumbnailURL),
		Gallery:      r.Gallery,
		GithubURL:    optional(r.GithubURL),
		LiveURL:      optional(r.LiveURL),
		DownloadURL:  optional(r.DownloadURL),
		CustomLinks:  links,
		IsPublished:  r.IsPublished,
		SortOrder:    r.SortOrder,
	}
}

// Editor godoc
// @Summary Settings and every project, drafts included
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Success 200 {object} service.Content
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/content [get]
func (h *ContentHandler) Editor(c echo.Context) error {
	content, err := h.content.Editor(c.Request().Context(), scopeFrom(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, content)
}

// Settings godoc
// @Summary Normalized settings document
// @Tags content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SettingsView
// @Router /account/sites/{siteId}/settings [get]
// @Router /admin/settings [get]
func (h *ContentHandler) Settings(c echo.Context) error {
	view, err := h.content.Settings(c.Request().Context(), scopeFrom(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, view)
}

// SaveSettings godoc
// @Summary Replace the settings document
// @Description The document is normalized before it is stored.
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param request body model.SiteSettings true "Settings"
// @Success 200 {object} service.SettingsView
// @Failure 400 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/settings [put]
// @Router /admin/settings [put]
func (h *ContentHandler) SaveSettings(c echo.Context) error {
	var doc model.SiteSettings
	if err := bindAndValidate(c, &doc); err != nil {
		return err
	}
	if err := validate(c, &settingsChecks{SiteName: strings.TrimSpace(doc.SiteName), ContactEmail: strings.TrimSpace(doc.ContactEmail)}); err != nil {
		return err
	}

	view, err := h.content.SaveSettings(c.Request().Context(), scopeFrom(c), doc)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, view)
}

// Projects godoc
// @Summary Every project of the scope in display order
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Success 200 {array} model.Project
// @Router /account/sites/{siteId}/projects [get]
// @Router /admin/projects [get]
func (h *ContentHandler) Projects(c echo.Context) error {
	projects, err := h.content.Projects(c.Request().Context(), scopeFrom(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Add a project
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param request body ProjectRequest true "Project"
// @Success 201 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/projects [post]
// @Router /admin/projects [post]
func (h *ContentHandler) CreateProject(c echo.Context) error {
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.content.CreateProject(c.Request().Context(), scopeFrom(c), req.toModel())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, project)
}

// UpdateProject godoc
// @Summary Replace a project
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param id path string true "Project ID"
// @Param request body ProjectRequest true "Project"
// @Success 200 {object} model.Project
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/projects/{id} [put]
// @Router /admin/projects/{id} [put]
func (h *ContentHandler) UpdateProject(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.content.UpdateProject(c.Request().Context(), scopeFrom(c), id, req.toModel())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param id path string true "Project ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/projects/{id} [delete]
// @Router /admin/projects/{id} [delete]
func (h *ContentHandler) DeleteProject(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeleteProject(c.Request().Context(), scopeFrom(c), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true})
}

// ReorderProjects godoc
// @Summary Assign sort orders in one batch
// @Description A project outside the scope aborts the whole batch.
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param request body ReorderRequest true "Items"
// @Success 200 {array} model.Project
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/projects/reorder [patch]
// @Router /admin/projects/reorder [patch]
func (h *ContentHandler) ReorderProjects(c echo.Context) error {
	var req ReorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]model.ReorderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.ReorderItem{ID: uuid.MustParse(it.ID), SortOrder: it.SortOrder})
	}

	projects, err := h.content.ReorderProjects(c.Request().Context(), scopeFrom(c), items)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, projects)
}
