package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	apperrors "portfoliostudio/internal/errors"
)

// ProviderKhalti is the provider name stored on orders.
const ProviderKhalti = "khalti"

const (
	initiatePath = "/api/v2/epayment/initiate/"
	lookupPath   = "/api/v2/epayment/lookup/"
)

type khaltiInitiateBody struct {
	ReturnURL         string   `json:"return_url"`
	WebsiteURL        string   `json:"website_url"`
	Amount            int64    `json:"amount"`
	PurchaseOrderID   string   `json:"purchase_order_id"`
	PurchaseOrderName string   `json:"purchase_order_name"`
	CustomerInfo      Customer `json:"customer_info"`
}

type khaltiInitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

type khaltiError struct {
	Detail   string `json:"detail"`
	ErrorKey string `json:"error_key"`
}

func (e *khaltiError) message(fallback string) string {
	switch {
	case e == nil:
		return fallback
	case e.Detail != "":
		return e.Detail
	case e.ErrorKey != "":
		return e.ErrorKey
	}
	return fallback
}

// KhaltiClient talks to the Khalti ePayment API. Calls are bounded by the
// client timeout and never retried; the caller re-polls verify instead.
type KhaltiClient struct {
	httpClient *resty.Client
	secretKey  string
	logger     *zap.Logger
}

var _ Provider = (*KhaltiClient)(nil)

// NewKhaltiClient builds a client for baseURL. An empty secretKey yields an
// unconfigured client whose calls fail with ErrProviderNotConfigured.
func NewKhaltiClient(baseURL, secretKey string, timeout time.Duration, logger *zap.Logger) *KhaltiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Key "+secretKey)

	return &KhaltiClient{
		httpClient: client,
		secretKey:  secretKey,
		logger:     logger.Named("khalti"),
	}
}

func (c *KhaltiClient) Name() string { return ProviderKhalti }

func (c *KhaltiClient) Configured() bool { return c.secretKey != "" }

// Initiate opens a checkout session and returns its pidx and payment URL.
func (c *KhaltiClient) Initiate(ctx context.Context, req InitiateRequest) (*Session, error) {
	if !c.Configured() {
		return nil, apperrors.ErrProviderNotConfigured
	}

	var (
		result  khaltiInitiateResponse
		failure khaltiError
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(khaltiInitiateBody{
			ReturnURL:         req.ReturnURL,
			WebsiteURL:        req.WebsiteURL,
			Amount:            req.AmountPaisa,
			PurchaseOrderID:   req.PurchaseOrderID,
			PurchaseOrderName: req.PurchaseOrderName,
			CustomerInfo:      req.Customer,
		}).
		SetResult(&result).
		SetError(&failure).
		Post(initiatePath)
	if err != nil {
		c.logger.Error("initiate call failed", zap.Error(err), zap.String("purchase_order_id", req.PurchaseOrderID))
		return nil, fmt.Errorf("%w: failed to initiate payment", apperrors.ErrProviderUnavailable)
	}
	if resp.IsError() {
		c.logger.Warn("initiate rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("detail", failure.message("")),
		)
		return nil, fmt.Errorf("%w: %s", apperrors.ErrProviderUnavailable, failure.message("failed to initiate payment"))
	}
	if result.Pidx == "" || result.PaymentURL == "" {
		return nil, fmt.Errorf("%w: payment provider returned invalid response", apperrors.ErrProviderUnavailable)
	}

	c.logger.Info("payment initiated", zap.String("pidx", result.Pidx), zap.String("purchase_order_id", req.PurchaseOrderID))
	return &Session{Reference: result.Pidx, PaymentURL: result.PaymentURL}, nil
}

// Lookup returns the current status of the session identified by pidx.
func (c *KhaltiClient) Lookup(ctx context.Context, pidx string) (*LookupResult, error) {
	if !c.Configured() {
		return nil, apperrors.ErrProviderNotConfigured
	}

	var (
		payload map[string]interface{}
		failure khaltiError
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"pidx": pidx}).
		SetResult(&payload).
		SetError(&failure).
		Post(lookupPath)
	if err != nil {
		c.logger.Error("lookup call failed", zap.Error(err), zap.String("pidx", pidx))
		return nil, fmt.Errorf("%w: failed to verify payment", apperrors.ErrProviderUnavailable)
	}
	if resp.IsError() {
		c.logger.Warn("lookup rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("pidx", pidx),
		)
		return nil, fmt.Errorf("%w: %s", apperrors.ErrProviderUnavailable, failure.message("failed to verify payment"))
	}

	status, _ := payload["status"].(string)
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &LookupResult{Status: status, Payload: payload}, nil
}
