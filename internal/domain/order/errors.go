package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrder is returned by Create when an order already
	// exists for the payment intent. Materialization treats it as
	// "already done" and re-reads the existing order.
	ErrDuplicateOrder        = errors.New("order already exists for payment")
	ErrInvalidDeliveryStatus = errors.New("invalid delivery status")
	ErrEmptyItems            = errors.New("order has no items")
)
