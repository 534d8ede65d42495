package address

import (
	"context"
	"errors"

	domaddress "example.com/storefront/internal/domain/address"
)

var ErrInvalidAddress = errors.New("invalid address")

type Service struct {
	repo domaddress.Repository
}

func NewService(repo domaddress.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMine(ctx context.Context, userID int64) (*domaddress.Address, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Save replaces the user's shipping address; each user keeps exactly one.
func (s *Service) Save(ctx context.Context, a *domaddress.Address) (*domaddress.Address, error) {
	if a.UserID <= 0 || a.FullName == "" || a.Line1 == "" || a.City == "" || a.State == "" || a.Pincode == "" || a.Phone == "" {
		return nil, ErrInvalidAddress
	}
	return s.repo.Save(ctx, a)
}
