package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/model"
	"portfoliostudio/internal/service"
)

// MessageHandler triages contact messages. Studio routes see one site's
// messages, admin routes see all of them.
type MessageHandler struct {
	messages service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// MessageStatusRequest moves a message to another triage state.
type MessageStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unread read archived"`
}

// List godoc
// @Summary Messages, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param search query string false "Case-insensitive text in name, email, subject or message"
// @Param status query string false "unread, read, archived or all"
// @Success 200 {array} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/messages [get]
// @Router /admin/messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	messages, err := h.messages.List(c.Request().Context(), messageSiteFilter(c), c.QueryParam("search"), c.QueryParam("status"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// UpdateStatus godoc
// @Summary Change the triage state of a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param id path string true "Message ID"
// @Param request body MessageStatusRequest true "Status"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/messages/{id}/status [patch]
// @Router /admin/messages/{id}/status [patch]
func (h *MessageHandler) UpdateStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req MessageStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.messages.UpdateStatus(c.Request().Context(), messageSiteFilter(c), id, model.MessageStatus(req.Status)); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true})
}

// Delete godoc
// @Summary Delete a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param siteId path string true "Site ID"
// @Param id path string true "Message ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /account/sites/{siteId}/messages/{id} [delete]
// @Router /admin/messages/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.messages.Delete(c.Request().Context(), messageSiteFilter(c), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true})
}
