package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	apperrors "portfoliostudio/internal/errors"
)

// DefaultResendBaseURL is the public Resend API endpoint.
const DefaultResendBaseURL = "https://api.resend.com"

// ErrPersonalSender is returned when MAIL_FROM is a personal Gmail address,
// which Resend refuses to send from.
var ErrPersonalSender = fmt.Errorf("%w: MAIL_FROM cannot be a personal Gmail address", apperrors.ErrProviderNotConfigured)

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, to, userName, verifyURL string) error
}

// ResendConfig configures ResendMailer.
type ResendConfig struct {
	APIKey     string
	From       string
	BaseURL    string
	Timeout    time.Duration
	Production bool
}

// ResendMailer sends mail through the Resend HTTP API. Without an API key it
// logs the verification link in development and fails in production.
type ResendMailer struct {
	httpClient *resty.Client
	cfg        ResendConfig
	logger     *zap.Logger
}

var _ Mailer = (*ResendMailer)(nil)

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NewResendMailer builds a mailer.
func NewResendMailer(cfg ResendConfig, logger *zap.Logger) *ResendMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultResendBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &ResendMailer{httpClient: client, cfg: cfg, logger: logger.Named("mail")}
}

func (m *ResendMailer) SendVerification(ctx context.Context, to, userName, verifyURL string) error {
	if strings.Contains(strings.ToLower(m.cfg.From), "@gmail.com") {
		return ErrPersonalSender
	}

	if m.cfg.APIKey == "" {
		if m.cfg.Production {
			return fmt.Errorf("%w: missing RESEND_API_KEY", apperrors.ErrProviderNotConfigured)
		}
		m.logger.Info("mail provider not configured, verification link logged instead",
			zap.String("to", to),
			zap.String("verify_url", verifyURL),
		)
		return nil
	}

	body, err := RenderVerification(userName, verifyURL)
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}

	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetBody(resendEmail{
			From:    m.cfg.From,
			To:      []string{to},
			Subject: verificationSubject,
			HTML:    body,
		}).
		Post("/emails")
	if err != nil {
		m.logger.Error("send verification email failed", zap.Error(err), zap.String("to", to))
		return fmt.Errorf("%w: send verification email", apperrors.ErrProviderUnavailable)
	}
	if resp.IsError() {
		m.logger.Warn("verification email rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return fmt.Errorf("%w: send verification email: %d", apperrors.ErrProviderUnavailable, resp.StatusCode())
	}

	m.logger.Info("verification email sent", zap.String("to", to))
	return nil
}
