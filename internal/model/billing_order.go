package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus represents the status of a billing order.
type OrderStatus string

const (
	OrderStatusInitiated OrderStatus = "initiated"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// BillingOrder tracks one plan purchase through the payment provider. Orders
// outlive the sites of their user.
type BillingOrder struct {
	ID          uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID         `json:"userId" gorm:"type:char(36);not null;index"`
	Plan        Plan              `json:"plan" gorm:"type:varchar(16);not null"`
	AmountNPR   decimal.Decimal   `json:"amountNpr" gorm:"type:decimal(12,2);not null"`
	Provider    string            `json:"provider" gorm:"type:varchar(32);not null;uniqueIndex:idx_billing_provider_ref"`
	ProviderRef *string           `json:"providerRef" gorm:"size:128;uniqueIndex:idx_billing_provider_ref"`
	Status      OrderStatus       `json:"status" gorm:"type:varchar(16);not null;index"`
	PaymentURL  *string           `json:"paymentUrl"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (o *BillingOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
