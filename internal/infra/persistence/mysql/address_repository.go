package mysql

import (
	"context"
	"database/sql"
	"errors"

	domaddress "example.com/storefront/internal/domain/address"
)

type AddressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

const addressColumns = `id, user_id, full_name, line1, COALESCE(line2, ''), city, state, pincode, phone`

func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*domaddress.Address, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = ?`, id)
	return scanAddress(row)
}

func (r *AddressRepository) GetByUser(ctx context.Context, userID int64) (*domaddress.Address, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = ?`, userID)
	return scanAddress(row)
}

// Save upserts the user's single address row.
func (r *AddressRepository) Save(ctx context.Context, a *domaddress.Address) (*domaddress.Address, error) {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO addresses (user_id, full_name, line1, line2, city, state, pincode, phone)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            full_name = VALUES(full_name), line1 = VALUES(line1), line2 = VALUES(line2),
            city = VALUES(city), state = VALUES(state), pincode = VALUES(pincode), phone = VALUES(phone)
    `, a.UserID, a.FullName, a.Line1, a.Line2, a.City, a.State, a.Pincode, a.Phone)
	if err != nil {
		return nil, err
	}
	return r.GetByUser(ctx, a.UserID)
}

func scanAddress(row *sql.Row) (*domaddress.Address, error) {
	var a domaddress.Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Line1, &a.Line2, &a.City, &a.State, &a.Pincode, &a.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domaddress.ErrAddressNotFound
		}
		return nil, err
	}
	return &a, nil
}
