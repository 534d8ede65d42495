package review

import "time"

// Review is a buyer's verdict on a product they received. OrderID points
// at the delivered order that qualified them to write it. At most one
// Review exists per (product, user); the store enforces this with a
// unique key.
type Review struct {
	ID           int64
	ProductID    int64
	UserID       int64
	OrderID      int64
	Rating       int64
	Comment      string
	ReviewerName string
	CreatedAt    time.Time
}
