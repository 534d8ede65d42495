package cart

import (
	"context"
	"errors"

	domcart "example.com/storefront/internal/domain/cart"
	domproduct "example.com/storefront/internal/domain/product"
)

type CartRepository interface {
	domcart.Repository
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

type Service struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewService(cartRepo CartRepository, productRepo ProductRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ToggleResult carries everything the client needs to resynchronize its
// cart state in one round trip.
type ToggleResult struct {
	Action domcart.Action
	Cart   *domcart.Cart
}

// Toggle adds, updates, or removes a cart line:
//   - no line for (user, product): insert with the given quantity -> added
//   - line exists with the same quantity: delete it -> removed
//   - line exists with a different quantity: overwrite it -> updated
//
// Two toggles racing on the insert are resolved by the store's unique key;
// the loser falls back to an update.
func (s *Service) Toggle(ctx context.Context, userID, productID, quantity int64) (*ToggleResult, error) {
	if quantity < 1 {
		return nil, domcart.ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domproduct.ErrProductNotFound
	}

	action := domcart.ActionAdded
	existing, err := s.cartRepo.Get(ctx, userID, productID)
	switch {
	case err == nil:
		if existing.Quantity == quantity {
			if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
				return nil, err
			}
			action = domcart.ActionRemoved
		} else {
			if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
				return nil, err
			}
			action = domcart.ActionUpdated
		}
	case errors.Is(err, domcart.ErrItemNotFound):
		err := s.cartRepo.Insert(ctx, userID, productID, quantity)
		if errors.Is(err, domcart.ErrDuplicateItem) {
			// Lost the insert race to a concurrent toggle; the row is
			// there now, so retry as an update.
			if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
				return nil, err
			}
			action = domcart.ActionUpdated
		} else if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Action: action, Cart: cart}, nil
}

// GetCart returns the user's cart with catalog fields resolved.
func (s *Service) GetCart(ctx context.Context, userID int64) (*domcart.Cart, error) {
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := &domcart.Cart{UserID: userID, Items: []domcart.DetailedItem{}}
	if len(items) == 0 {
		return cart, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	for _, item := range items {
		p, ok := productMap[item.ProductID]
		if !ok {
			continue
		}
		unit := p.EffectivePrice()
		line := domcart.DetailedItem{
			Item:        item,
			ProductName: p.Name,
			UnitPrice:   unit,
			Images:      p.Images,
			LineTotal:   unit * float64(item.Quantity),
		}
		cart.Items = append(cart.Items, line)
		cart.Total += line.LineTotal
	}
	return cart, nil
}

func (s *Service) Count(ctx context.Context, userID int64) (int64, error) {
	return s.cartRepo.Count(ctx, userID)
}
