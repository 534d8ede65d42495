package order

import "context"

type Repository interface {
	// Create inserts the order and its items. A unique key on
	// payment_id backstops the materializer's check-then-create:
	// losing that race returns ErrDuplicateOrder.
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByPaymentID(ctx context.Context, paymentID int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status DeliveryStatus) (*Order, error)

	// DeliveredOrderID returns the newest delivered order of the user
	// that contains the product, or ErrOrderNotFound when no such order
	// exists. Reviews use it as the verified-purchase gate.
	DeliveredOrderID(ctx context.Context, userID, productID int64) (int64, error)
	SetInvoice(ctx context.Context, id int64, inv Invoice) error
	MarkEmailSent(ctx context.Context, id int64) error
}
