package payment

import "time"

// Status of a payment intent. PENDING intents transition exactly once to
// SUCCESS or FAILED; COD intents are born terminal and never touch the
// gateway path.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusCOD     Status = "COD"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// CheckoutType records whether the attempt covers the whole cart or a
// single buy-now item.
type CheckoutType string

const (
	CheckoutCart   CheckoutType = "CART"
	CheckoutBuyNow CheckoutType = "BUY_NOW"
)

func (c CheckoutType) IsValid() bool {
	switch c {
	case CheckoutCart, CheckoutBuyNow:
		return true
	default:
		return false
	}
}

// LineItem is a server-resolved snapshot line. Name and price come from the
// catalog at intent creation time and are never re-read afterwards.
type LineItem struct {
	ProductID int64
	Name      string
	Quantity  int64
	Price     float64
}

// FailureReason is the structured reason attached to a FAILED intent.
type FailureReason struct {
	Code    string
	Message string
}

// Intent is one checkout attempt. MerchantTxnID is the correlation id
// shared with the gateway; it is unique and immutable after creation.
type Intent struct {
	ID            int64
	UserID        int64
	AddressID     int64
	Items         []LineItem
	TotalAmount   float64
	CheckoutType  CheckoutType
	MerchantTxnID string
	Status        Status
	GatewayTxnID  string
	Failure       *FailureReason
	CreatedAt     time.Time
}
