package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load site: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", ErrConflict, http.StatusConflict, "CONFLICT"},
		{"validation", fmt.Errorf("%w: plan must be plus or pro", ErrValidation), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unverified", ErrEmailNotVerified, http.StatusForbidden, "EMAIL_NOT_VERIFIED"},
		{"token", ErrInvalidToken, http.StatusBadRequest, "INVALID_TOKEN"},
		{"provider config", ErrProviderNotConfigured, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED"},
		{"provider down", fmt.Errorf("khalti initiate: %w", ErrProviderUnavailable), http.StatusBadGateway, "PROVIDER_UNAVAILABLE"},
		{"quota", ErrSiteLimitReached, http.StatusForbidden, "SITE_LIMIT_REACHED"},
		{"launch", ErrLaunchNotAllowed, http.StatusForbidden, "LAUNCH_NOT_ALLOWED"},
		{"checkout", ErrCheckoutRequired, http.StatusPaymentRequired, "CHECKOUT_REQUIRED"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("query users: connection reset"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}
