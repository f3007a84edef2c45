package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRequestsAndErrors(t *testing.T) {
	m := New("test")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway) })
	e.GET("/metrics", m.Handler())

	for _, path := range []string{"/ok", "/ok", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues(http.MethodGet, "/ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiErrors.WithLabelValues(http.MethodGet, "/boom", "502")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_api_requests_total"))
}

func TestDomainCounters(t *testing.T) {
	m := New("test")
	m.SiteCreated()
	m.SiteCreated()
	m.SiteDeleted()
	m.OrderTransition("plus", "completed")
	m.ProviderCall("khalti", "lookup", errors.New("timeout"))
	m.Login("user", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sitesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sitesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("plus", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("khalti", "lookup", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("user", "ok")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SiteCreated()
		m.SiteDeleted()
		m.OrderTransition("pro", "failed")
		m.ProviderCall("khalti", "initiate", nil)
		m.VerificationEmail(nil)
		m.Login("admin", nil)
	})

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
