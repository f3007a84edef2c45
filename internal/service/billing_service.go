package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/payment"
	"portfoliostudio/internal/repository"
)

const ordersListLimit = 30

// Provider statuses that end an order without payment. Matching is case
// insensitive; every status outside this set and "completed" is pending.
var terminalFailureStatuses = map[string]bool{
	"expired":   true,
	"canceled":  true,
	"cancelled": true,
	"failed":    true,
	"refunded":  true,
}

// Quota returns the number of sites a plan may own.
func Quota(plan model.Plan) int {
	switch plan {
	case model.PlanPlus:
		return 5
	case model.PlanPro:
		return 100
	default:
		return 1
	}
}

// CanLaunch reports whether a plan may launch sites.
func CanLaunch(plan model.Plan) bool {
	return plan == model.PlanPlus || plan == model.PlanPro
}

// BillingSummary is derived from the current plan and owned site count on
// every call.
type BillingSummary struct {
	Plan          model.Plan `json:"plan"`
	SiteCount     int64      `json:"siteCount"`
	MaxSites      int        `json:"maxSites"`
	CanCreateSite bool       `json:"canCreateSite"`
	CanLaunch     bool       `json:"canLaunch"`
}

// NewBillingSummary computes the summary for plan and siteCount.
func NewBillingSummary(plan model.Plan, siteCount int64) *BillingSummary {
	max := Quota(plan)
	return &BillingSummary{
		Plan:          plan,
		SiteCount:     siteCount,
		MaxSites:      max,
		CanCreateSite: siteCount < int64(max),
		CanLaunch:     CanLaunch(plan),
	}
}

// CheckoutResult points the payer to the provider's hosted page.
type CheckoutResult struct {
	OrderID    uuid.UUID `json:"orderId"`
	PaymentURL string    `json:"paymentUrl"`
	Pidx       string    `json:"pidx"`
}

// VerifyResult reports the state of an order after polling the provider.
// Pending results should be polled again later.
type VerifyResult struct {
	Success bool            `json:"success"`
	Pending bool            `json:"pending"`
	Status  string          `json:"status"`
	Billing *BillingSummary `json:"billing"`
}

// BillingConfig holds prices and URLs used during checkout.
type BillingConfig struct {
	AppBaseURL    string
	FallbackPhone string
	PlusAmountNPR decimal.Decimal
	ProAmountNPR  decimal.Decimal
}

// BillingService maps plans to quotas and drives payment orders.
type BillingService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*BillingSummary, error)
	SetPlan(ctx context.Context, userID uuid.UUID, plan model.Plan) (*BillingSummary, error)
	Checkout(ctx context.Context, userID uuid.UUID, plan model.Plan) (*CheckoutResult, error)
	Verify(ctx context.Context, userID uuid.UUID, providerRef string) (*VerifyResult, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]model.BillingOrder, error)
	Price(plan model.Plan) (decimal.Decimal, error)
}

type billingService struct {
	store    *repository.Store
	provider payment.Provider
	cfg      BillingConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewBillingService creates a new billing service.
func NewBillingService(store *repository.Store, provider payment.Provider, cfg BillingConfig, m *metrics.Metrics, logger *zap.Logger) BillingService {
	return &billingService{
		store:    store,
		provider: provider,
		cfg:      cfg,
		metrics:  m,
		logger:   orNop(logger).Named("billing"),
		now:      time.Now,
	}
}

func summaryFor(ctx context.Context, store *repository.Store, userID uuid.UUID) (*BillingSummary, error) {
	user, err := store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := store.Sites().CountOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewBillingSummary(user.Plan, count), nil
}

func (s *billingService) Summary(ctx context.Context, userID uuid.UUID) (*BillingSummary, error) {
	return summaryFor(ctx, s.store, userID)
}

// SetPlan applies free directly. Paid plans go through Checkout.
func (s *billingService) SetPlan(ctx context.Context, userID uuid.UUID, plan model.Plan) (*BillingSummary, error) {
	switch plan {
	case model.PlanFree:
	case model.PlanPlus, model.PlanPro:
		return nil, apperrors.ErrCheckoutRequired
	default:
		return nil, fmt.Errorf("%w: unknown plan %q", apperrors.ErrValidation, plan)
	}
	if err := s.store.Users().UpdatePlan(ctx, userID, plan); err != nil {
		return nil, err
	}
	s.logger.Info("plan changed", zap.String("user_id", userID.String()), zap.String("plan", string(plan)))
	return s.Summary(ctx, userID)
}

func (s *billingService) Price(plan model.Plan) (decimal.Decimal, error) {
	switch plan {
	case model.PlanPlus:
		return s.cfg.PlusAmountNPR, nil
	case model.PlanPro:
		return s.cfg.ProAmountNPR, nil
	}
	return decimal.Zero, fmt.Errorf("%w: invalid plan for checkout", apperrors.ErrValidation)
}

func (s *billingService) Checkout(ctx context.Context, userID uuid.UUID, plan model.Plan) (*CheckoutResult, error) {
	amount, err := s.Price(plan)
	if err != nil {
		return nil, err
	}
	if !s.provider.Configured() {
		return nil, fmt.Errorf("%w: payment provider is not configured yet", apperrors.ErrProviderNotConfigured)
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	purchaseOrderID, err := s.newPurchaseOrderID()
	if err != nil {
		return nil, err
	}
	purchaseOrderName := strings.ToUpper(string(plan)) + " plan"

	session, err := s.provider.Initiate(ctx, payment.InitiateRequest{
		AmountPaisa:       amount.Mul(decimal.NewFromInt(100)).IntPart(),
		PurchaseOrderID:   purchaseOrderID,
		PurchaseOrderName: purchaseOrderName,
		ReturnURL:         s.cfg.AppBaseURL + "/studio/billing/callback",
		WebsiteURL:        s.cfg.AppBaseURL,
		Customer: payment.Customer{
			Name:  displayName(user.Email),
			Email: user.Email,
			Phone: s.cfg.FallbackPhone,
		},
	})
	s.metrics.ProviderCall(s.provider.Name(), "initiate", err)
	if err != nil {
		return nil, err
	}

	order := &model.BillingOrder{
		UserID:      userID,
		Plan:        plan,
		AmountNPR:   amount,
		Provider:    s.provider.Name(),
		ProviderRef: &session.Reference,
		Status:      model.OrderStatusInitiated,
		PaymentURL:  &session.PaymentURL,
		Metadata: datatypes.JSONMap{
			"purchaseOrderId":   purchaseOrderID,
			"purchaseOrderName": purchaseOrderName,
		},
	}
	if err := s.store.Orders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	s.metrics.OrderTransition(string(plan), string(model.OrderStatusInitiated))
	s.logger.Info("checkout initiated",
		zap.String("user_id", userID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("purchase_order_id", purchaseOrderID),
		zap.String("amount_npr", amount.String()),
	)

	return &CheckoutResult{OrderID: order.ID, PaymentURL: session.PaymentURL, Pidx: session.Reference}, nil
}

// Verify polls the provider for the order behind providerRef. A completed
// order is final: it is reported without another provider call and the plan
// is applied at most once.
func (s *billingService) Verify(ctx context.Context, userID uuid.UUID, providerRef string) (*VerifyResult, error) {
	if strings.TrimSpace(providerRef) == "" {
		return nil, fmt.Errorf("%w: missing payment reference", apperrors.ErrValidation)
	}
	if !s.provider.Configured() {
		return nil, fmt.Errorf("%w: payment provider is not configured yet", apperrors.ErrProviderNotConfigured)
	}

	order, err := s.store.Orders().FindByProviderRef(ctx, userID, s.provider.Name(), providerRef)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusCompleted {
		return s.result(ctx, userID, true, "Completed")
	}

	lookup, err := s.provider.Lookup(ctx, providerRef)
	s.metrics.ProviderCall(s.provider.Name(), "lookup", err)
	if err != nil {
		return nil, err
	}
	status := lookup.Status
	if status == "" {
		status = "Pending"
	}
	metadata := mergeMetadata(order.Metadata, lookup.Payload)

	normalized := strings.ToLower(status)
	switch {
	case normalized == "completed":
		var applied bool
		err := s.store.WithTx(ctx, func(tx *repository.Store) error {
			changed, err := tx.Orders().Transition(ctx, order.ID, model.OrderStatusCompleted, metadata)
			if err != nil || !changed {
				return err
			}
			applied = true
			return tx.Users().UpdatePlan(ctx, userID, order.Plan)
		})
		if err != nil {
			return nil, fmt.Errorf("complete order: %w", err)
		}
		if applied {
			s.metrics.OrderTransition(string(order.Plan), string(model.OrderStatusCompleted))
			s.logger.Info("order completed, plan applied",
				zap.String("user_id", userID.String()),
				zap.String("order_id", order.ID.String()),
				zap.String("plan", string(order.Plan)),
			)
		}
		return s.result(ctx, userID, true, status)

	case terminalFailureStatuses[normalized]:
		changed, err := s.store.Orders().Transition(ctx, order.ID, model.OrderStatusFailed, metadata)
		if err != nil {
			return nil, err
		}
		if changed {
			s.metrics.OrderTransition(string(order.Plan), string(model.OrderStatusFailed))
			s.logger.Info("order failed", zap.String("order_id", order.ID.String()), zap.String("provider_status", status))
		}
		return s.result(ctx, userID, false, status)

	default:
		if _, err := s.store.Orders().Transition(ctx, order.ID, model.OrderStatusInitiated, metadata); err != nil {
			return nil, err
		}
	}

	res, err := s.result(ctx, userID, false, status)
	if err != nil {
		return nil, err
	}
	res.Pending = true
	return res, nil
}

func (s *billingService) result(ctx context.Context, userID uuid.UUID, success bool, status string) (*VerifyResult, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Success: success, Status: status, Billing: summary}, nil
}

func (s *billingService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.BillingOrder, error) {
	return s.store.Orders().ListForUser(ctx, userID, ordersListLimit)
}

func (s *billingService) newPurchaseOrderID() (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate order id: %w", err)
	}
	return fmt.Sprintf("ord-%d-%s", s.now().UnixMilli(), hex.EncodeToString(suffix)), nil
}

func displayName(email string) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return "user"
}

func mergeMetadata(current datatypes.JSONMap, payload map[string]interface{}) datatypes.JSONMap {
	merged := datatypes.JSONMap{}
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range payload {
		merged[k] = v
	}
	return merged
}
