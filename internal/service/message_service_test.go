package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/model"
)

func TestMessageService_SubmitRoutesBySlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "u@test.dev", model.PlanFree)
	site := env.newBareSite(t, user.ID, "Site", "site")

	in := ContactInput{Name: " Ann ", Email: "ann@x.dev", Subject: "Hello", Message: " Hi there "}

	tenant, err := env.messages.Submit(ctx, "site", in)
	require.NoError(t, err)
	require.NotNil(t, tenant.SiteID)
	assert.Equal(t, site.ID, *tenant.SiteID)
	assert.Equal(t, "Ann", tenant.Name)
	assert.Equal(t, "Hi there", tenant.Message)
	assert.Equal(t, model.MessageStatusUnread, tenant.Status)

	unknown, err := env.messages.Submit(ctx, "no-such-site", in)
	require.NoError(t, err)
	assert.Nil(t, unknown.SiteID)

	global, err := env.messages.Submit(ctx, "", in)
	require.NoError(t, err)
	assert.Nil(t, global.SiteID)

	siteMessages, err := env.messages.List(ctx, &site.ID, "", "all")
	require.NoError(t, err)
	assert.Len(t, siteMessages, 1)

	all, err := env.messages.List(ctx, nil, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMessageService_StatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "u@test.dev", model.PlanFree)
	site := env.newBareSite(t, user.ID, "Site", "site")
	other := env.newBareSite(t, user.ID, "Other", "other")

	msg, err := env.messages.Submit(ctx, "site", ContactInput{Name: "A", Email: "a@x.dev", Subject: "S", Message: "M"})
	require.NoError(t, err)

	err = env.messages.UpdateStatus(ctx, &site.ID, msg.ID, model.MessageStatus("spam"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = env.messages.UpdateStatus(ctx, &other.ID, msg.ID, model.MessageStatusRead)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, env.messages.UpdateStatus(ctx, &site.ID, msg.ID, model.MessageStatusArchived))
	archived, err := env.messages.List(ctx, &site.ID, "", string(model.MessageStatusArchived))
	require.NoError(t, err)
	assert.Len(t, archived, 1)

	_, err = env.messages.List(ctx, &site.ID, "", "spam")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.ErrorIs(t, env.messages.Delete(ctx, &other.ID, msg.ID), apperrors.ErrNotFound)
	require.NoError(t, env.messages.Delete(ctx, nil, msg.ID))
	assert.ErrorIs(t, env.messages.Delete(ctx, nil, uuid.New()), apperrors.ErrNotFound)
}
