package cart

import "context"

type Repository interface {
	Get(ctx context.Context, userID, productID int64) (*Item, error)
	Insert(ctx context.Context, userID, productID, quantity int64) error
	UpdateQuantity(ctx context.Context, userID, productID, quantity int64) error
	Delete(ctx context.Context, userID, productID int64) error
	ListItems(ctx context.Context, userID int64) ([]Item, error)
	Count(ctx context.Context, userID int64) (int64, error)
	Clear(ctx context.Context, userID int64) error
}
