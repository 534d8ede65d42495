package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcart "example.com/storefront/internal/domain/cart"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Get(ctx context.Context, userID, productID int64) (*domcart.Item, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, product_id, quantity
        FROM cart_items
        WHERE user_id = ? AND product_id = ?
    `, userID, productID)

	var item domcart.Item
	if err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) Insert(ctx context.Context, userID, productID, quantity int64) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO cart_items (user_id, product_id, quantity)
        VALUES (?, ?, ?)
    `, userID, productID, quantity)
	if isDuplicateEntry(err) {
		return domcart.ErrDuplicateItem
	}
	return err
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, productID, quantity int64) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE cart_items SET quantity = ?
        WHERE user_id = ? AND product_id = ?
    `, quantity, userID, productID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		// Either the row vanished or the quantity already matches;
		// distinguish by re-reading.
		if _, gerr := r.Get(ctx, userID, productID); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, productID int64) error {
	res, err := r.db.ExecContext(ctx, `
        DELETE FROM cart_items WHERE user_id = ? AND product_id = ?
    `, userID, productID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domcart.ErrItemNotFound
	}
	return nil
}

func (r *CartRepository) ListItems(ctx context.Context, userID int64) ([]domcart.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, product_id, quantity
        FROM cart_items
        WHERE user_id = ?
        ORDER BY id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domcart.Item
	for rows.Next() {
		var item domcart.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CartRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM cart_items WHERE user_id = ?
    `, userID).Scan(&count)
	return count, err
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
