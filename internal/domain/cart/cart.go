package cart

// Item is one row of a user's cart. At most one Item exists per
// (user, product) pair; the store enforces this with a unique key.
type Item struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int64
}

// DetailedItem is an Item joined with the catalog fields the client needs
// to render a cart line without a second round trip.
type DetailedItem struct {
	Item
	ProductName string
	UnitPrice   float64
	Images      []string
	LineTotal   float64
}

type Cart struct {
	UserID int64
	Items  []DetailedItem
	Total  float64
}

// Action reports what a toggle call did to the cart.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
	ActionRemoved Action = "removed"
)
