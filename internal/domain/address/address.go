package address

import (
	"context"
	"errors"
)

// Address is a user's single shipping address. Saving replaces any
// previous one; orders reference it by id.
type Address struct {
	ID       int64
	UserID   int64
	FullName string
	Line1    string
	Line2    string
	City     string
	State    string
	Pincode  string
	Phone    string
}

var ErrAddressNotFound = errors.New("address not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Address, error)
	GetByUser(ctx context.Context, userID int64) (*Address, error)
	Save(ctx context.Context, a *Address) (*Address, error)
}
