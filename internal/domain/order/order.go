package order

import (
	"time"

	dompayment "example.com/storefront/internal/domain/payment"
)

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentCOD    PaymentMethod = "COD"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentOnline, PaymentCOD:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusFailed   PaymentStatus = "Failed"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

type DeliveryStatus string

const (
	DeliveryPending        DeliveryStatus = "Pending"
	DeliveryShipped        DeliveryStatus = "Shipped"
	DeliveryOutForDelivery DeliveryStatus = "Out for Delivery"
	DeliveryDelivered      DeliveryStatus = "Delivered"
	DeliveryCancelled      DeliveryStatus = "Cancelled"
)

func (d DeliveryStatus) IsValid() bool {
	switch d {
	case DeliveryPending, DeliveryShipped, DeliveryOutForDelivery, DeliveryDelivered, DeliveryCancelled:
		return true
	default:
		return false
	}
}

// Invoice describes the rendered invoice document living in the external
// object store.
type Invoice struct {
	URL         string
	ObjectID    string
	GeneratedAt time.Time
}

// Item is one snapshot line copied from the payment intent at
// materialization. Image is resolved from the live catalog for display
// only; name and price are frozen.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Price     float64
	Quantity  int64
	Image     string
}

// Order is the durable record of a placed order. Exactly one Order exists
// per payment intent; SubTotal and Total are set once at creation and never
// recomputed.
type Order struct {
	ID             int64
	UserID         int64
	AddressID      int64
	PaymentID      int64
	Items          []Item
	PaymentMethod  PaymentMethod
	PaymentStatus  PaymentStatus
	DeliveryStatus DeliveryStatus
	SubTotal       float64
	Total          float64
	Invoice        *Invoice
	EmailSent      bool
	CreatedAt      time.Time
}

// FromSnapshot copies payment line items into order items.
func FromSnapshot(lines []dompayment.LineItem) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	return items
}
