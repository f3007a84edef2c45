package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/service"
)

// BillingHandler handles plan and payment endpoints.
type BillingHandler struct {
	billing service.BillingService
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(billing service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// PlanRequest selects a billing plan.
type PlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free plus pro"`
}

// PlanResponse wraps the summary after a plan change.
type PlanResponse struct {
	Success bool                    `json:"success"`
	Billing *service.BillingSummary `json:"billing"`
}

// Summary godoc
// @Summary Current plan, quota and site count
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BillingSummary
// @Router /account/billing [get]
func (h *BillingHandler) Summary(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	summary, err := h.billing.Summary(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// SetPlan godoc
// @Summary Switch to the free plan
// @Description Paid plans answer 402 and must go through checkout.
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlanRequest true "Plan"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse
// @Router /account/billing/plan [post]
func (h *BillingHandler) SetPlan(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	var req PlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	summary, err := h.billing.SetPlan(c.Request().Context(), userID, model.Plan(req.Plan))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, PlanResponse{Success: true, Billing: summary})
}

// Upgrade is the retired direct upgrade endpoint.
// @Summary Deprecated, use checkout
// @Tags billing
// @Security BearerAuth
// @Failure 410 {object} errors.ErrorResponse
// @Router /account/billing/upgrade [post]
func (h *BillingHandler) Upgrade(c echo.Context) error {
	return echo.NewHTTPError(http.StatusGone, errors.ErrorResponse{
		Error: "deprecated endpoint, use /api/account/billing/checkout",
		Code:  "GONE",
	})
}

// Checkout godoc
// @Summary Start a hosted payment for a paid plan
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlanRequest true "Plan"
// @Success 200 {object} service.CheckoutResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /account/billing/checkout [post]
func (h *BillingHandler) Checkout(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	var req PlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.billing.Checkout(c.Request().Context(), userID, model.Plan(req.Plan))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, res)
}

// Verify godoc
// @Summary Poll the provider for a checkout
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param pidx query string true "Provider payment reference"
// @Success 200 {object} service.VerifyResult
// @Success 202 {object} service.VerifyResult "payment failed or still pending"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /account/billing/verify [get]
func (h *BillingHandler) Verify(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}

	res, err := h.billing.Verify(c.Request().Context(), userID, c.QueryParam("pidx"))
	if err != nil {
		return fail(err)
	}
	if !res.Success {
		return c.JSON(http.StatusAccepted, res)
	}
	return c.JSON(http.StatusOK, res)
}

// Orders godoc
// @Summary Recent billing orders, newest first
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.BillingOrder
// @Router /account/billing/orders [get]
func (h *BillingHandler) Orders(c echo.Context) error {
	userID, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.billing.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, orders)
}
