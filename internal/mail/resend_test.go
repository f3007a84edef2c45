package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "portfoliostudio/internal/errors"
)

func TestRenderVerification_EscapesInput(t *testing.T) {
	body, err := RenderVerification("<script>x</script>", "https://app.test/studio/verify-email?token=abc")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "https://app.test/studio/verify-email?token=abc")
	assert.Contains(t, body, "30 minutes")
}

func TestResendMailer_Sends(t *testing.T) {
	var got resendEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	m := NewResendMailer(ResendConfig{APIKey: "re_test", From: "Studio <no-reply@studio.test>", BaseURL: srv.URL}, nil)
	require.NoError(t, m.SendVerification(context.Background(), "u@test.dev", "U", "https://app.test/verify"))

	assert.Equal(t, []string{"u@test.dev"}, got.To)
	assert.Equal(t, verificationSubject, got.Subject)
	assert.Equal(t, "Studio <no-reply@studio.test>", got.From)
	assert.Contains(t, got.HTML, "https://app.test/verify")
}

func TestResendMailer_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"domain not verified"}`))
	}))
	defer srv.Close()

	m := NewResendMailer(ResendConfig{APIKey: "re_test", From: "no-reply@studio.test", BaseURL: srv.URL}, nil)
	err := m.SendVerification(context.Background(), "u@test.dev", "U", "https://app.test/verify")
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}

func TestResendMailer_WithoutKey(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dev := NewResendMailer(ResendConfig{From: "no-reply@studio.test"}, zap.New(core))
	require.NoError(t, dev.SendVerification(context.Background(), "u@test.dev", "U", "https://app.test/verify"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "https://app.test/verify", logs.All()[0].ContextMap()["verify_url"])

	prod := NewResendMailer(ResendConfig{From: "no-reply@studio.test", Production: true}, nil)
	err := prod.SendVerification(context.Background(), "u@test.dev", "U", "https://app.test/verify")
	assert.ErrorIs(t, err, apperrors.ErrProviderNotConfigured)
}

func TestResendMailer_RejectsGmailSender(t *testing.T) {
	m := NewResendMailer(ResendConfig{APIKey: "re_test", From: "Me <someone@Gmail.com>"}, nil)
	err := m.SendVerification(context.Background(), "u@test.dev", "U", "https://app.test/verify")
	assert.ErrorIs(t, err, ErrPersonalSender)
}
