package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"portfoliostudio/internal/db"
	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "store.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb, nil))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(gdb)
}

func seedUserAndSite(t *testing.T, s *Store, email, slug string) (*model.User, *model.Site) {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Email: email, PasswordHash: "hash", Name: "Test", Plan: model.PlanFree}
	require.NoError(t, s.Users().Create(ctx, user))
	site := &model.Site{OwnerUserID: user.ID, Name: slug, Slug: slug, Status: model.SiteStatusPreview}
	require.NoError(t, s.Sites().Create(ctx, site))
	require.NoError(t, s.Sites().AddMember(ctx, &model.SiteMembership{UserID: user.ID, SiteID: site.ID, Role: model.SiteRoleOwner}))
	return user, site
}

func TestStore_WithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *Store) error {
		require.NoError(t, tx.Users().Create(ctx, &model.User{Email: "tx@test.dev", PasswordHash: "h", Name: "Tx", Plan: model.PlanFree}))
		return apperrors.ErrValidation
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = s.Users().FindByEmail(ctx, "tx@test.dev")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &model.User{Email: "dup@test.dev", PasswordHash: "h", Name: "A", Plan: model.PlanFree}))
	err := s.Users().Create(ctx, &model.User{Email: "dup@test.dev", PasswordHash: "h", Name: "B", Plan: model.PlanFree})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserRepository_VerificationToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := &model.User{Email: "v@test.dev", PasswordHash: "h", Name: "V", Plan: model.PlanFree}
	require.NoError(t, s.Users().Create(ctx, user))
	require.NoError(t, s.Users().SetVerificationToken(ctx, user.ID, "hash-1", now.Add(30*time.Minute)))

	_, err := s.Users().ConsumeVerificationToken(ctx, "wrong", now)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.Users().ConsumeVerificationToken(ctx, "hash-1", now.Add(31*time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "expired tokens are rejected")

	verified, err := s.Users().ConsumeVerificationToken(ctx, "hash-1", now)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	_, err = s.Users().ConsumeVerificationToken(ctx, "hash-1", now)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "tokens are single use")

	stored, err := s.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.EmailVerificationTokenHash)
	assert.Nil(t, stored.EmailVerificationExpiresAt)
}

func TestAdminRepository_UpsertOverwritesPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Admins().Upsert(ctx, "admin@test.dev", "one")
	require.NoError(t, err)
	second, err := s.Admins().Upsert(ctx, "admin@test.dev", "two")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	stored, err := s.Admins().FindByEmail(ctx, "admin@test.dev")
	require.NoError(t, err)
	assert.Equal(t, "two", stored.PasswordHash)
	assert.Equal(t, model.AdminRole, stored.Role)
}

func TestSiteRepository_SlugUniqueAndMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user, site := seedUserAndSite(t, s, "owner@test.dev", "my-portfolio")

	exists, err := s.Sites().SlugExists(ctx, "my-portfolio")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.Sites().Create(ctx, &model.Site{OwnerUserID: user.ID, Name: "Dup", Slug: "my-portfolio", Status: model.SiteStatusPreview})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	role, err := s.Sites().Role(ctx, user.ID, site.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SiteRoleOwner, role)

	_, err = s.Sites().Role(ctx, uuid.New(), site.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	count, err := s.Sites().CountOwned(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	sites, err := s.Sites().ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, site.ID, sites[0].ID)
}

func TestSiteRepository_DeleteCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user, doomed := seedUserAndSite(t, s, "owner@test.dev", "doomed")
	_, kept := seedUserAndSite(t, s, "other@test.dev", "kept")

	for _, site := range []*model.Site{doomed, kept} {
		require.NoError(t, s.Settings().SaveTenant(ctx, site.ID, []byte(`{"siteName":"x"}`)))
		require.NoError(t, s.Projects().Create(ctx, SiteScope(site.ID), &model.Project{Title: "P", Subtitle: "S", Description: "D", Category: "web"}))
		siteID := site.ID
		require.NoError(t, s.Messages().Create(ctx, &model.Message{SiteID: &siteID, Name: "N", Email: "e@x.dev", Subject: "S", Message: "M"}))
	}
	ref := "pidx-1"
	require.NoError(t, s.Orders().Create(ctx, &model.BillingOrder{
		UserID: user.ID, Plan: model.PlanPlus, AmountNPR: decimal.NewFromInt(5000),
		Provider: "khalti", ProviderRef: &ref, Status: model.OrderStatusInitiated,
	}))

	deleted, err := s.Sites().DeleteCascade(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, SiteDeletion{Projects: 1, Settings: 1, Messages: 1, Memberships: 1, Sites: 1}, *deleted)

	_, err = s.Sites().FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Settings().GetTenant(ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	n, err := s.Projects().Count(ctx, SiteScope(kept.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	keptID := kept.ID
	msgs, err := s.Messages().List(ctx, MessageFilter{SiteID: &keptID})
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	orders, err := s.Orders().ListForUser(ctx, user.ID, 30)
	require.NoError(t, err)
	assert.Len(t, orders, 1, "billing orders survive site deletion")

	_, err = s.Sites().DeleteCascade(ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSettingsRepository_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inserted, err := s.Settings().EnsureGlobal(ctx, []byte(`{"siteName":"first"}`))
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.Settings().EnsureGlobal(ctx, []byte(`{"siteName":"second"}`))
	require.NoError(t, err)
	assert.False(t, inserted)

	row, err := s.Settings().GetGlobal(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"siteName":"first"}`, string(row.Payload))

	require.NoError(t, s.Settings().SaveGlobal(ctx, []byte(`{"siteName":"third"}`)))
	row, err = s.Settings().GetGlobal(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"siteName":"third"}`, string(row.Payload))

	siteID := uuid.New()
	require.NoError(t, s.Settings().SaveTenant(ctx, siteID, []byte(`{"a":1}`)))
	require.NoError(t, s.Settings().SaveTenant(ctx, siteID, []byte(`{"a":2}`)))
	tenant, err := s.Settings().GetTenant(ctx, siteID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(tenant.Payload))
}

func TestOrderRepository_TransitionNeverRegresses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user, _ := seedUserAndSite(t, s, "buyer@test.dev", "buyer")

	ref := "pidx-42"
	order := &model.BillingOrder{
		UserID: user.ID, Plan: model.PlanPro, AmountNPR: decimal.NewFromInt(1500),
		Provider: "khalti", ProviderRef: &ref, Status: model.OrderStatusInitiated,
		Metadata: datatypes.JSONMap{"purchaseOrderId": "ord-1"},
	}
	require.NoError(t, s.Orders().Create(ctx, order))

	_, err := s.Orders().FindByProviderRef(ctx, uuid.New(), "khalti", ref)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "orders are scoped to their user")

	changed, err := s.Orders().Transition(ctx, order.ID, model.OrderStatusCompleted, datatypes.JSONMap{"status": "Completed"})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Orders().Transition(ctx, order.ID, model.OrderStatusFailed, nil)
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := s.Orders().FindByProviderRef(ctx, user.ID, "khalti", ref)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, stored.Status)
	assert.True(t, decimal.NewFromInt(1500).Equal(stored.AmountNPR))
	assert.Equal(t, "Completed", stored.Metadata["status"])
}
