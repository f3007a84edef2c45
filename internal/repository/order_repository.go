package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"portfoliostudio/internal/model"
)

// OrderRepository defines persistence operations for billing orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.BillingOrder) error
	FindByProviderRef(ctx context.Context, userID uuid.UUID, provider, ref string) (*model.BillingOrder, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.BillingOrder, error)
	Transition(ctx context.Context, id uuid.UUID, status model.OrderStatus, metadata datatypes.JSONMap) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository builds a GORM-backed repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.BillingOrder) error {
	return translate(r.db.WithContext(ctx).Create(order).Error, "create billing order")
}

// FindByProviderRef only returns orders owned by userID.
func (r *orderRepository) FindByProviderRef(ctx context.Context, userID uuid.UUID, provider, ref string) (*model.BillingOrder, error) {
	var order model.BillingOrder
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_ref = ? AND user_id = ?", provider, ref, userID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "find billing order")
	}
	return &order, nil
}

func (r *orderRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.BillingOrder, error) {
	var orders []model.BillingOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "list billing orders")
	}
	return orders, nil
}

// Transition moves an order to status unless it is already completed. It
// reports whether a row changed, which lets callers apply side effects
// exactly once.
func (r *orderRepository) Transition(ctx context.Context, id uuid.UUID, status model.OrderStatus, metadata datatypes.JSONMap) (bool, error) {
	updates := map[string]interface{}{"status": status}
	if metadata != nil {
		updates["metadata"] = metadata
	}
	res := r.db.WithContext(ctx).Model(&model.BillingOrder{}).
		Where("id = ? AND status <> ?", id, model.OrderStatusCompleted).
		Updates(updates)
	if res.Error != nil {
		return false, translate(res.Error, "update billing order")
	}
	return res.RowsAffected > 0, nil
}
