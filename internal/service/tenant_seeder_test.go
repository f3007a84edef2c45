package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/settings"
)

func TestTenantSeeder_SeedsEmptySite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "owner@test.dev", model.PlanFree)
	site := env.newBareSite(t, user.ID, "Nora Studio", "nora-studio")

	require.NoError(t, env.seeder.EnsureDefaults(ctx, site.ID))

	row, err := env.store.Settings().GetTenant(ctx, site.ID)
	require.NoError(t, err)
	doc, err := settings.Normalize(row.Payload, model.SiteSettings{})
	require.NoError(t, err)
	assert.Equal(t, "Nora Studio", doc.SiteName)

	projects, err := env.store.Projects().List(ctx, repository.SiteScope(site.ID), false)
	require.NoError(t, err)
	assert.Len(t, projects, len(settings.StarterProjects()))
}

func TestTenantSeeder_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "owner@test.dev", model.PlanFree)
	site := env.newBareSite(t, user.ID, "Studio", "studio")

	require.NoError(t, env.seeder.EnsureDefaults(ctx, site.ID))
	first, err := env.store.Settings().GetTenant(ctx, site.ID)
	require.NoError(t, err)

	require.NoError(t, env.seeder.EnsureDefaults(ctx, site.ID))
	second, err := env.store.Settings().GetTenant(ctx, site.ID)
	require.NoError(t, err)

	assert.JSONEq(t, string(first.Payload), string(second.Payload))
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))

	count, err := env.store.Projects().Count(ctx, repository.SiteScope(site.ID))
	require.NoError(t, err)
	assert.EqualValues(t, len(settings.StarterProjects()), count)
}

func TestTenantSeeder_ReplacesLegacyTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "owner@test.dev", model.PlanFree)
	site := env.newBareSite(t, user.ID, "Fresh Name", "fresh-name")

	legacy := []byte(`{"siteName":"adkhex","contactEmail":"adkhex@gmail.com","heroTitle":"old"}`)
	require.NoError(t, env.store.Settings().SaveTenant(ctx, site.ID, legacy))

	require.NoError(t, env.seeder.EnsureDefaults(ctx, site.ID))

	row, err := env.store.Settings().GetTenant(ctx, site.ID)
	require.NoError(t, err)
	assert.False(t, settings.MatchesLegacyFingerprint(row.Payload))
	doc, err := settings.Normalize(row.Payload, model.SiteSettings{})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Name", doc.SiteName)
}

func TestTenantSeeder_KeepsCustomSettingsAndProjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "owner@test.dev", model.PlanFree)
	site := env.newBareSite(t, user.ID, "Custom", "custom")
	scope := repository.SiteScope(site.ID)

	custom := []byte(`{"siteName":"Mine","contactEmail":"me@mine.dev"}`)
	require.NoError(t, env.store.Settings().SaveTenant(ctx, site.ID, custom))
	require.NoError(t, env.store.Projects().Create(ctx, scope, &model.Project{Title: "Only one"}))

	require.NoError(t, env.seeder.EnsureDefaults(ctx, site.ID))

	row, err := env.store.Settings().GetTenant(ctx, site.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(custom), string(row.Payload))

	projects, err := env.store.Projects().List(ctx, scope, false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Only one", projects[0].Title)
}

func TestTenantSeeder_UnknownSite(t *testing.T) {
	env := newTestEnv(t)
	err := env.seeder.EnsureDefaults(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
