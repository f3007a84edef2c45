package service

import (
	"context"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfoliostudio/internal/auth"
	"portfoliostudio/internal/cache"
	"portfoliostudio/internal/db"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/payment"
	"portfoliostudio/internal/repository"
)

type mockProvider struct {
	mock.Mock
	configured bool
}

func (m *mockProvider) Name() string     { return payment.ProviderKhalti }
func (m *mockProvider) Configured() bool { return m.configured }

func (m *mockProvider) Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *mockProvider) Lookup(ctx context.Context, reference string) (*payment.LookupResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.LookupResult), args.Error(1)
}

// recordingMailer keeps every verification link it was asked to send.
type recordingMailer struct {
	mu    sync.Mutex
	links map[string][]string
	err   error
}

func (m *recordingMailer) SendVerification(_ context.Context, to, _, verifyURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.links == nil {
		m.links = map[string][]string{}
	}
	m.links[to] = append(m.links[to], verifyURL)
	return nil
}

func (m *recordingMailer) lastToken(t *testing.T, to string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	links := m.links[to]
	require.NotEmpty(t, links, "no verification mail for %s", to)
	u, err := url.Parse(links[len(links)-1])
	require.NoError(t, err)
	return u.Query().Get("token")
}

func (m *recordingMailer) count(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.links[to])
}

type testEnv struct {
	store    *repository.Store
	redis    *miniredis.Miniredis
	cache    *cache.Client
	provider *mockProvider
	mailer   *recordingMailer
	jwt      *auth.JWTService
	tokens   *auth.TokenStore
	metrics  *metrics.Metrics

	access   AccessService
	seeder   TenantSeeder
	content  ContentService
	billing  BillingService
	sites    SiteService
	accounts AccountService
	admin    AdminService
	messages MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "studio.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb, nil))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		store:    repository.NewStore(gdb),
		redis:    miniredis.RunT(t),
		provider: &mockProvider{configured: true},
		mailer:   &recordingMailer{},
		jwt:      auth.NewJWTService("test-secret", time.Hour),
		metrics:  metrics.New("test"),
	}
	env.cache = cache.New(env.redis.Addr(), "", 0)
	env.tokens = auth.NewTokenStore(env.cache)

	env.access = NewAccessService(env.store)
	env.seeder = NewTenantSeeder(env.store, nil)
	env.content = NewContentService(env.store, env.seeder, env.cache, nil)
	env.billing = NewBillingService(env.store, env.provider, BillingConfig{
		AppBaseURL:    "http://app.test",
		FallbackPhone: "9800000001",
		PlusAmountNPR: decimal.NewFromInt(5000),
		ProAmountNPR:  decimal.NewFromInt(1500),
	}, env.metrics, nil)
	env.sites = NewSiteService(env.store, env.access, env.seeder, env.content, env.metrics, nil)
	env.accounts = NewAccountService(env.store, env.sites, env.billing, env.mailer, env.jwt, env.tokens, "http://app.test/", env.metrics, nil)
	env.admin = NewAdminService(env.store, env.jwt, env.tokens, env.metrics, nil)
	env.messages = NewMessageService(env.store, nil)
	return env
}

// newUser inserts a verified user directly.
func (e *testEnv) newUser(t *testing.T, email string, plan model.Plan) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{Email: email, PasswordHash: hash, Name: "Test", Plan: plan, EmailVerified: true}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

// newBareSite inserts a site with its owner membership but no defaults.
func (e *testEnv) newBareSite(t *testing.T, owner uuid.UUID, name, slug string) *model.Site {
	t.Helper()
	ctx := context.Background()
	site := &model.Site{OwnerUserID: owner, Name: name, Slug: slug, Status: model.SiteStatusPreview}
	require.NoError(t, e.store.Sites().Create(ctx, site))
	require.NoError(t, e.store.Sites().AddMember(ctx, &model.SiteMembership{UserID: owner, SiteID: site.ID, Role: model.SiteRoleOwner}))
	return site
}

func (e *testEnv) plan(t *testing.T, userID uuid.UUID) model.Plan {
	t.Helper()
	user, err := e.store.Users().FindByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Plan
}
