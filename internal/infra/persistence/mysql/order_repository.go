package mysql

import (
	"context"
	"database/sql"
	"errors"

	domorder "example.com/storefront/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	if len(o.Items) == 0 {
		return nil, domorder.ErrEmptyItems
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders
            (user_id, address_id, payment_id, payment_method, payment_status,
             delivery_status, subtotal_amount, total_amount, email_sent)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, FALSE)
    `, o.UserID, o.AddressID, o.PaymentID, o.PaymentMethod, o.PaymentStatus,
		o.DeliveryStatus, o.SubTotal, o.Total)
	if err != nil {
		if isDuplicateEntry(err) {
			retErr = domorder.ErrDuplicateOrder
			return nil, retErr
		}
		retErr = err
		return nil, retErr
	}
	orderID, _ := res.LastInsertId()

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
            VALUES (?, ?, ?, ?, ?)
        `, orderID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return r.GetByID(ctx, orderID)
}

const orderColumns = `id, user_id, address_id, payment_id, payment_method, payment_status,
       delivery_status, subtotal_amount, total_amount,
       invoice_url, invoice_object_id, invoice_generated_at, email_sent, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*domorder.Order, error) {
	var o domorder.Order
	var invURL, invObject sql.NullString
	var invAt sql.NullTime
	err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.PaymentID, &o.PaymentMethod,
		&o.PaymentStatus, &o.DeliveryStatus, &o.SubTotal, &o.Total,
		&invURL, &invObject, &invAt, &o.EmailSent, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if invURL.Valid {
		o.Invoice = &domorder.Invoice{
			URL:      invURL.String,
			ObjectID: invObject.String,
		}
		if invAt.Valid {
			o.Invoice.GeneratedAt = invAt.Time
		}
	}
	return &o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domorder.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, o)
}

func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_id = ?`, paymentID)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domorder.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, o)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domorder.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if _, err := r.withItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) UpdateDeliveryStatus(ctx context.Context, id int64, status domorder.DeliveryStatus) (*domorder.Order, error) {
	// RowsAffected is 0 both for a missing order and for an unchanged
	// status, so re-read unconditionally; GetByID reports the missing case.
	_, err := r.db.ExecContext(ctx, `
        UPDATE orders SET delivery_status = ? WHERE id = ?
    `, status, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) SetInvoice(ctx context.Context, id int64, inv domorder.Invoice) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET invoice_url = ?, invoice_object_id = ?, invoice_generated_at = ?
        WHERE id = ?
    `, inv.URL, inv.ObjectID, inv.GeneratedAt, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	// The driver counts changed rows, so a retry writing identical values
	// also lands here; only report a genuinely missing order.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM orders WHERE id = ?)
    `, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domorder.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) DeliveredOrderID(ctx context.Context, userID, productID int64) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
        SELECT o.id
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id
        WHERE o.user_id = ? AND oi.product_id = ? AND o.delivery_status = ?
        ORDER BY o.id DESC
        LIMIT 1
    `, userID, productID, domorder.DeliveryDelivered).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domorder.ErrOrderNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *OrderRepository) MarkEmailSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET email_sent = TRUE WHERE id = ?`, id)
	return err
}

func (r *OrderRepository) withItems(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, unit_price, quantity
        FROM order_items
        WHERE order_id = ?
        ORDER BY id
    `, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.Item
	for rows.Next() {
		var item domorder.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}
