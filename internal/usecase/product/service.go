package product

import (
	"context"

	domproduct "example.com/storefront/internal/domain/product"
)

// Service is the public read surface of the catalog. Content management
// lives in a separate back office.
type Service struct {
	repo domproduct.Repository
}

func NewService(repo domproduct.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, search string) ([]*domproduct.Product, error) {
	return s.repo.List(ctx, domproduct.ListFilter{Search: search, OnlyActive: true})
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domproduct.ErrProductNotFound
	}
	return p, nil
}
