package review

import (
	"context"
	"errors"
	"strings"

	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domreview "example.com/storefront/internal/domain/review"
)

var (
	ErrInvalidReview = errors.New("invalid review payload")
	// ErrNotPurchased gates review writing: the user must have a
	// delivered order containing the product.
	ErrNotPurchased = errors.New("product not purchased or not delivered yet")
)

type ReviewRepository interface {
	domreview.Repository
}

type OrderRepository interface {
	DeliveredOrderID(ctx context.Context, userID, productID int64) (int64, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

type Service struct {
	reviewRepo  ReviewRepository
	orderRepo   OrderRepository
	productRepo ProductRepository
}

func NewService(reviewRepo ReviewRepository, orderRepo OrderRepository, productRepo ProductRepository) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

type CreateInput struct {
	UserID    int64
	ProductID int64
	Rating    int64
	Comment   string
}

// Create writes the user's review of a product. The review is tied to the
// delivered order that qualified them; buyers without one are turned away,
// and a second review of the same product is rejected.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domreview.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Rating < 1 || in.Rating > 5 || in.Comment == "" {
		return nil, ErrInvalidReview
	}

	if _, err := s.productRepo.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	orderID, err := s.orderRepo.DeliveredOrderID(ctx, in.UserID, in.ProductID)
	if errors.Is(err, domorder.ErrOrderNotFound) {
		return nil, ErrNotPurchased
	}
	if err != nil {
		return nil, err
	}

	return s.reviewRepo.Create(ctx, &domreview.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		OrderID:   orderID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
}

// HasPurchased reports whether the user may review the product, i.e.
// whether a delivered order of theirs contains it.
func (s *Service) HasPurchased(ctx context.Context, userID, productID int64) (bool, error) {
	_, err := s.orderRepo.DeliveredOrderID(ctx, userID, productID)
	if errors.Is(err, domorder.ErrOrderNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProduct returns the product's reviews, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]*domreview.Review, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByProduct(ctx, productID)
}
