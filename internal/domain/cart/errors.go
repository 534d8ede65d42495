package cart

import "errors"

var (
	ErrItemNotFound = errors.New("cart item not found")
	// ErrDuplicateItem is returned by Insert when the (user, product)
	// unique key already holds a row, i.e. a concurrent toggle won the
	// insert race.
	ErrDuplicateItem   = errors.New("cart item already exists")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)
