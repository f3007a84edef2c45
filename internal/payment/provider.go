package payment

import "context"

// Customer identifies the payer towards the provider.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// InitiateRequest starts a hosted checkout session. Amount is in the smallest
// currency unit (paisa).
type InitiateRequest struct {
	AmountPaisa       int64
	PurchaseOrderID   string
	PurchaseOrderName string
	ReturnURL         string
	WebsiteURL        string
	Customer          Customer
}

// Session is the provider's answer to an initiate call.
type Session struct {
	Reference  string
	PaymentURL string
}

// LookupResult carries the provider's free text status plus the full payload,
// which is kept as order metadata.
type LookupResult struct {
	Status  string
	Payload map[string]interface{}
}

// Provider is a payment gateway reached over request/response calls.
type Provider interface {
	Name() string
	Configured() bool
	Initiate(ctx context.Context, req InitiateRequest) (*Session, error)
	Lookup(ctx context.Context, reference string) (*LookupResult, error)
}
