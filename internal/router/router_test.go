package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"portfoliostudio/internal/auth"
	"portfoliostudio/internal/cache"
	"portfoliostudio/internal/config"
	"portfoliostudio/internal/db"
	"portfoliostudio/internal/handler"
	"portfoliostudio/internal/mail"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/payment"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/service"
)

type testServer struct {
	e    *echo.Echo
	logs *observer.ObservedLogs
}

func newKhaltiStub(t *testing.T, status string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v2/epayment/initiate/":
			_, _ = w.Write([]byte(`{"pidx":"pidx-http","payment_url":"https://pay.test/pidx-http"}`))
		case "/api/v2/epayment/lookup/":
			_, _ = w.Write([]byte(`{"pidx":"pidx-http","status":"` + status + `","total_amount":500000}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLookup(t, "Completed")
}

// newTestServerWithLookup wires the full stack against a Khalti stub whose
// lookup always reports status.
func newTestServerWithLookup(t *testing.T, status string) *testServer {
	t.Helper()
	ctx := context.Background()

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "studio.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb, nil))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	cacheClient := cache.New(mr.Addr(), "", 0)
	cfg := &config.Config{CORSOrigin: "http://localhost:8080", AppBaseURL: "http://app.test"}

	store := repository.NewStore(gdb)
	m := metrics.New("test")
	jwtService := auth.NewJWTService("router-secret", time.Hour)
	tokens := auth.NewTokenStore(cacheClient)
	khalti := payment.NewKhaltiClient(newKhaltiStub(t, status).URL, "test-key", 5*time.Second, log)
	mailer := mail.NewResendMailer(mail.ResendConfig{From: "Studio <no-reply@studio.test>"}, log)

	access := service.NewAccessService(store)
	seeder := service.NewTenantSeeder(store, log)
	content := service.NewContentService(store, seeder, cacheClient, log)
	billing := service.NewBillingService(store, khalti, service.BillingConfig{
		AppBaseURL:    cfg.AppBaseURL,
		FallbackPhone: "9800000001",
		PlusAmountNPR: decimal.NewFromInt(5000),
		ProAmountNPR:  decimal.NewFromInt(1500),
	}, m, log)
	sites := service.NewSiteService(store, access, seeder, content, m, log)
	accounts := service.NewAccountService(store, sites, billing, mailer, jwtService, tokens, cfg.AppBaseURL, m, log)
	admin := service.NewAdminService(store, jwtService, tokens, m, log)
	messages := service.NewMessageService(store, log)
	require.NoError(t, admin.Bootstrap(ctx, "admin@test.dev", "admin-pass-1"))

	e := echo.New()
	Register(e, cfg, log, m, jwtService, tokens, Handlers{
		Public:   handler.NewPublicHandler(content, sites, messages),
		Auth:     handler.NewAuthHandler(accounts),
		Sites:    handler.NewSiteHandler(sites, access),
		Content:  handler.NewContentHandler(content),
		Messages: handler.NewMessageHandler(messages),
		Billing:  handler.NewBillingHandler(billing),
		Admin:    handler.NewAdminHandler(admin),
	})
	return &testServer{e: e, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var payload *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decode(t, rec, &body)
	return body.Code
}

// lastVerificationToken reads the link the development mailer logged.
func (s *testServer) lastVerificationToken(t *testing.T) string {
	t.Helper()
	entries := s.logs.FilterMessage("mail provider not configured, verification link logged instead").All()
	require.NotEmpty(t, entries)
	link, ok := entries[len(entries)-1].ContextMap()["verify_url"].(string)
	require.True(t, ok)
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func (s *testServer) signupVerified(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/account/auth/signup", handler.SignupRequest{Name: "Una", Email: email, Password: "password123"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/account/auth/verify-email?token="+s.lastVerificationToken(t), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session service.Session
	decode(t, rec, &session)
	return session.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/admin/auth/login", handler.LoginRequest{Email: "admin@test.dev", Password: "admin-pass-1"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session service.Session
	decode(t, rec, &session)
	return session.Token
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", nil, "").Code)
	rec := s.do(t, http.MethodGet, "/api/health", nil, "")
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_api_requests_total")
}

func TestStudioFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/account/auth/signup", handler.SignupRequest{Name: "Una", Email: "u@test.dev", Password: "password123"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/account/auth/login", handler.LoginRequest{Email: "u@test.dev", Password: "password123"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/account/auth/verify-email?token="+s.lastVerificationToken(t), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session service.Session
	decode(t, rec, &session)
	token := session.Token

	rec = s.do(t, http.MethodPost, "/api/account/sites", handler.CreateSiteRequest{Name: "Second"}, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SITE_LIMIT_REACHED", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/account/billing/plan", handler.PlanRequest{Plan: "plus"}, token)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/account/billing/checkout", handler.PlanRequest{Plan: "plus"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var checkout service.CheckoutResult
	decode(t, rec, &checkout)
	assert.Equal(t, "pidx-http", checkout.Pidx)

	rec = s.do(t, http.MethodGet, "/api/account/billing/verify?pidx="+checkout.Pidx, nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified service.VerifyResult
	decode(t, rec, &verified)
	assert.True(t, verified.Success)
	assert.Equal(t, "plus", string(verified.Billing.Plan))

	rec = s.do(t, http.MethodPost, "/api/account/sites", handler.CreateSiteRequest{Name: "Second"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/account/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile service.Profile
	decode(t, rec, &profile)
	assert.Len(t, profile.Sites, 2)

	rec = s.do(t, http.MethodPost, "/api/account/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/account/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenScopesAreSeparate(t *testing.T) {
	s := newTestServer(t)
	userToken := s.signupVerified(t, "u@test.dev")
	adminToken := s.adminToken(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/admin/dashboard", nil, userToken).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/account/auth/me", nil, adminToken).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/admin/dashboard", nil, "").Code)

	rec := s.do(t, http.MethodGet, "/api/admin/dashboard", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "noindex, nofollow", rec.Header().Get("X-Robots-Tag"))
	var stats service.DashboardStats
	decode(t, rec, &stats)
	assert.EqualValues(t, 2, stats.ProjectCount)
}

func TestSiteRoutesRequireMembership(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupVerified(t, "owner@test.dev")
	stranger := s.signupVerified(t, "stranger@test.dev")

	rec := s.do(t, http.MethodGet, "/api/account/sites", nil, owner)
	var sites []struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	decode(t, rec, &sites)
	require.Len(t, sites, 1)
	base := "/api/account/sites/" + sites[0].ID

	rec = s.do(t, http.MethodGet, base+"/projects", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/projects", nil, stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, base, nil, stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/account/sites/not-a-uuid/projects", nil, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/projects", handler.ProjectRequest{Title: "T"}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))
}

func TestPublicSurface(t *testing.T) {
	s := newTestServer(t)
	token := s.signupVerified(t, "u@test.dev")

	rec := s.do(t, http.MethodGet, "/api/account/sites", nil, token)
	var sites []struct {
		Slug string `json:"slug"`
	}
	decode(t, rec, &sites)
	require.Len(t, sites, 1)

	var tenant service.Content
	rec = s.do(t, http.MethodGet, "/api/public/content?site="+sites[0].Slug, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &tenant)
	assert.Equal(t, "My Portfolio", tenant.Settings.SiteName)

	var global service.Content
	rec = s.do(t, http.MethodGet, "/api/public/content?site=missing", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &global)
	assert.NotEqual(t, tenant.Settings.SiteName, global.Settings.SiteName)

	msg := handler.ContactRequest{Name: "Ann", Email: "ann@x.dev", Subject: "Hi", Message: "Hello"}
	rec = s.do(t, http.MethodPost, "/api/public/messages?site="+sites[0].Slug, msg, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	msg.Email = "not-an-email"
	rec = s.do(t, http.MethodPost, "/api/public/messages", msg, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBillingVerifyNotFinalIsAccepted(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		wantPending bool
	}{
		{name: "pending", status: "Pending", wantPending: true},
		{name: "expired", status: "Expired", wantPending: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServerWithLookup(t, tt.status)
			token := s.signupVerified(t, "payer@test.dev")

			rec := s.do(t, http.MethodPost, "/api/account/billing/checkout", handler.PlanRequest{Plan: "plus"}, token)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			rec = s.do(t, http.MethodGet, "/api/account/billing/verify?pidx=pidx-http", nil, token)
			require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
			var res service.VerifyResult
			decode(t, rec, &res)
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantPending, res.Pending)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, "free", string(res.Billing.Plan))
		})
	}
}
