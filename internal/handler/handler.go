package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"portfoliostudio/internal/auth"
	"portfoliostudio/internal/errors"
	"portfoliostudio/internal/repository"
)

// Context keys set by the router middleware.
const (
	ClaimsKey = "claims"
	ScopeKey  = "scope"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// fail converts a service error into an echo error carrying ErrorResponse.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	return validate(c, req)
}

func validate(c echo.Context, v interface{}) error {
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}
	return nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// ClaimsFrom returns the verified token claims of the request.
func ClaimsFrom(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "unauthorized",
			Code:  "UNAUTHORIZED",
		})
	}
	return claims, nil
}

func principal(c echo.Context) (uuid.UUID, error) {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := claims.PrincipalID()
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "unauthorized",
			Code:  "UNAUTHORIZED",
		})
	}
	return id, nil
}

// scopeFrom returns the content scope resolved for the route group. Routes
// outside a scoped group fall back to the global scope.
func scopeFrom(c echo.Context) repository.Scope {
	if scope, ok := c.Get(ScopeKey).(repository.Scope); ok {
		return scope
	}
	return repository.GlobalScope()
}

// messageSiteFilter maps the content scope to the message filter; the global
// scope sees every message.
func messageSiteFilter(c echo.Context) *uuid.UUID {
	scope := scopeFrom(c)
	if scope.IsGlobal() {
		return nil
	}
	id := scope.SiteID()
	return &id
}
