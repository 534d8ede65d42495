package review

import "context"

type Repository interface {
	Create(ctx context.Context, rv *Review) (*Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]*Review, error)
}
