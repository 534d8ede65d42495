package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/internal/domain/cart"
	domproduct "example.com/storefront/internal/domain/product"
)

// --- Mocks ---

type mockCartRepository struct {
	items map[int64]map[int64]int64 // userID -> productID -> quantity

	// forceDuplicateOnInsert simulates losing an insert race: the first
	// Insert for the keyed pair reports a duplicate even though Get said
	// the row was absent.
	forceDuplicateOnInsert map[[2]int64]bool
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		items:                  make(map[int64]map[int64]int64),
		forceDuplicateOnInsert: make(map[[2]int64]bool),
	}
}

func (m *mockCartRepository) Get(ctx context.Context, userID, productID int64) (*domcart.Item, error) {
	qty, ok := m.items[userID][productID]
	if !ok {
		return nil, domcart.ErrItemNotFound
	}
	return &domcart.Item{UserID: userID, ProductID: productID, Quantity: qty}, nil
}

func (m *mockCartRepository) Insert(ctx context.Context, userID, productID, quantity int64) error {
	key := [2]int64{userID, productID}
	if m.forceDuplicateOnInsert[key] {
		delete(m.forceDuplicateOnInsert, key)
		if m.items[userID] == nil {
			m.items[userID] = make(map[int64]int64)
		}
		m.items[userID][productID] = 1
		return domcart.ErrDuplicateItem
	}
	if _, ok := m.items[userID][productID]; ok {
		return domcart.ErrDuplicateItem
	}
	if m.items[userID] == nil {
		m.items[userID] = make(map[int64]int64)
	}
	m.items[userID][productID] = quantity
	return nil
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, userID, productID, quantity int64) error {
	if _, ok := m.items[userID][productID]; !ok {
		return domcart.ErrItemNotFound
	}
	m.items[userID][productID] = quantity
	return nil
}

func (m *mockCartRepository) Delete(ctx context.Context, userID, productID int64) error {
	if _, ok := m.items[userID][productID]; !ok {
		return domcart.ErrItemNotFound
	}
	delete(m.items[userID], productID)
	return nil
}

func (m *mockCartRepository) ListItems(ctx context.Context, userID int64) ([]domcart.Item, error) {
	var out []domcart.Item
	for productID, qty := range m.items[userID] {
		out = append(out, domcart.Item{UserID: userID, ProductID: productID, Quantity: qty})
	}
	return out, nil
}

func (m *mockCartRepository) Count(ctx context.Context, userID int64) (int64, error) {
	return int64(len(m.items[userID])), nil
}

func (m *mockCartRepository) Clear(ctx context.Context, userID int64) error {
	delete(m.items, userID)
	return nil
}

type mockProductRepository struct {
	products map[int64]*domproduct.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: map[int64]*domproduct.Product{
			1: {ID: 1, Name: "Teak Coffee Table", Price: 250.0, OfferPrice: 199.0, IsActive: true, Images: []string{"teak-1.jpg"}},
			2: {ID: 2, Name: "Rattan Chair", Price: 120.0, IsActive: true},
			3: {ID: 3, Name: "Discontinued Lamp", Price: 40.0, IsActive: false},
		},
	}
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	var out []*domproduct.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Tests ---

func TestToggleAddsNewItem(t *testing.T) {
	cartRepo := newMockCartRepository()
	svc := NewService(cartRepo, newMockProductRepository())

	res, err := svc.Toggle(context.Background(), 10, 1, 2)
	require.NoError(t, err)
	require.Equal(t, domcart.ActionAdded, res.Action)
	require.Len(t, res.Cart.Items, 1)
	require.Equal(t, int64(2), res.Cart.Items[0].Quantity)
	require.Equal(t, "Teak Coffee Table", res.Cart.Items[0].ProductName)
	require.Equal(t, 199.0, res.Cart.Items[0].UnitPrice) // offer price wins
	require.Equal(t, 398.0, res.Cart.Total)
}

func TestToggleSameQuantityRemovesItem(t *testing.T) {
	cartRepo := newMockCartRepository()
	svc := NewService(cartRepo, newMockProductRepository())

	_, err := svc.Toggle(context.Background(), 10, 1, 2)
	require.NoError(t, err)

	res, err := svc.Toggle(context.Background(), 10, 1, 2)
	require.NoError(t, err)
	require.Equal(t, domcart.ActionRemoved, res.Action)
	require.Empty(t, res.Cart.Items)
	require.Zero(t, res.Cart.Total)
}

func TestToggleDifferentQuantityUpdatesItem(t *testing.T) {
	cartRepo := newMockCartRepository()
	svc := NewService(cartRepo, newMockProductRepository())

	_, err := svc.Toggle(context.Background(), 10, 2, 2)
	require.NoError(t, err)

	res, err := svc.Toggle(context.Background(), 10, 2, 5)
	require.NoError(t, err)
	require.Equal(t, domcart.ActionUpdated, res.Action)
	require.Len(t, res.Cart.Items, 1)
	require.Equal(t, int64(5), res.Cart.Items[0].Quantity)
	require.Equal(t, 600.0, res.Cart.Total)
}

func TestToggleAddRemoveAddEndsWithOneLine(t *testing.T) {
	cartRepo := newMockCartRepository()
	svc := NewService(cartRepo, newMockProductRepository())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 10, 1, 3)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 10, 1, 3)
	require.NoError(t, err)
	res, err := svc.Toggle(ctx, 10, 1, 3)
	require.NoError(t, err)

	require.Equal(t, domcart.ActionAdded, res.Action)
	require.Len(t, res.Cart.Items, 1)
	require.Equal(t, int64(3), res.Cart.Items[0].Quantity)
}

func TestToggleLostInsertRaceFallsBackToUpdate(t *testing.T) {
	cartRepo := newMockCartRepository()
	cartRepo.forceDuplicateOnInsert[[2]int64{10, 2}] = true
	svc := NewService(cartRepo, newMockProductRepository())

	res, err := svc.Toggle(context.Background(), 10, 2, 4)
	require.NoError(t, err)
	require.Equal(t, domcart.ActionUpdated, res.Action)
	require.Len(t, res.Cart.Items, 1)
	require.Equal(t, int64(4), res.Cart.Items[0].Quantity)
}

func TestToggleRejectsInvalidQuantity(t *testing.T) {
	svc := NewService(newMockCartRepository(), newMockProductRepository())

	_, err := svc.Toggle(context.Background(), 10, 1, 0)
	require.ErrorIs(t, err, domcart.ErrInvalidQuantity)
}

func TestToggleRejectsUnknownProduct(t *testing.T) {
	svc := NewService(newMockCartRepository(), newMockProductRepository())

	_, err := svc.Toggle(context.Background(), 10, 999, 1)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestToggleRejectsInactiveProduct(t *testing.T) {
	svc := NewService(newMockCartRepository(), newMockProductRepository())

	_, err := svc.Toggle(context.Background(), 10, 3, 1)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestGetCartSkipsVanishedProducts(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	svc := NewService(cartRepo, productRepo)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 10, 1, 1)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 10, 2, 1)
	require.NoError(t, err)

	delete(productRepo.products, 2)

	cart, err := svc.GetCart(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, int64(1), cart.Items[0].ProductID)
}

func TestGetCartEmpty(t *testing.T) {
	svc := NewService(newMockCartRepository(), newMockProductRepository())

	cart, err := svc.GetCart(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, cart.Items)
	require.Empty(t, cart.Items)
	require.Zero(t, cart.Total)
}

func TestCount(t *testing.T) {
	cartRepo := newMockCartRepository()
	svc := NewService(cartRepo, newMockProductRepository())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 10, 1, 1)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 10, 2, 1)
	require.NoError(t, err)

	n, err := svc.Count(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
