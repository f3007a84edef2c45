package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned for unknown ids and for ids outside the caller's scope.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique resource already exists.
	ErrConflict = errors.New("already exists")
	// ErrValidation is returned when input is malformed.
	ErrValidation = errors.New("invalid payload")
	// ErrForbidden is returned when a member lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified is returned when an unverified user logs in.
	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	// ErrInvalidToken is returned for absent, unknown or expired verification tokens.
	ErrInvalidToken = errors.New("verification link is invalid or expired")
	// ErrProviderNotConfigured is returned when an external provider has no credentials.
	ErrProviderNotConfigured = errors.New("provider is not configured")
	// ErrProviderUnavailable is returned when an external provider call fails.
	ErrProviderUnavailable = errors.New("provider request failed")
	// ErrSiteLimitReached is returned when the plan quota does not allow another site.
	ErrSiteLimitReached = errors.New("site limit reached for current plan")
	// ErrLaunchNotAllowed is returned when the plan does not allow launching a site.
	ErrLaunchNotAllowed = errors.New("launch is available on plus and pro plans")
	// ErrCheckoutRequired is returned when a paid plan is requested without checkout.
	ErrCheckoutRequired = errors.New("paid plans require checkout")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors, possibly wrapped, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, ErrConflict.Error(), "CONFLICT")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailNotVerified):
		return NewHTTPError(http.StatusForbidden, ErrEmailNotVerified.Error(), "EMAIL_NOT_VERIFIED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrProviderNotConfigured):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "PROVIDER_NOT_CONFIGURED")
	case errors.Is(err, ErrProviderUnavailable):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "PROVIDER_UNAVAILABLE")
	case errors.Is(err, ErrSiteLimitReached):
		return NewHTTPError(http.StatusForbidden, ErrSiteLimitReached.Error(), "SITE_LIMIT_REACHED")
	case errors.Is(err, ErrLaunchNotAllowed):
		return NewHTTPError(http.StatusForbidden, ErrLaunchNotAllowed.Error(), "LAUNCH_NOT_ALLOWED")
	case errors.Is(err, ErrCheckoutRequired):
		return NewHTTPError(http.StatusPaymentRequired, ErrCheckoutRequired.Error(), "CHECKOUT_REQUIRED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
