package mysql

import (
	"context"
	"database/sql"
	"errors"

	dompayment "example.com/storefront/internal/domain/payment"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, intent *dompayment.Intent) (_ *dompayment.Intent, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var failureCode, failureMessage any
	if intent.Failure != nil {
		failureCode = intent.Failure.Code
		failureMessage = intent.Failure.Message
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO payments
            (user_id, address_id, total_amount, checkout_type, merchant_transaction_id,
             status, gateway_transaction_id, failure_code, failure_message)
        VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)
    `, intent.UserID, intent.AddressID, intent.TotalAmount, intent.CheckoutType,
		intent.MerchantTxnID, intent.Status, intent.GatewayTxnID, failureCode, failureMessage)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	id, _ := res.LastInsertId()

	for _, line := range intent.Items {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO payment_items (payment_id, product_id, product_name, unit_price, quantity)
            VALUES (?, ?, ?, ?, ?)
        `, id, line.ProductID, line.Name, line.Price, line.Quantity)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return r.GetByMerchantTxnID(ctx, intent.MerchantTxnID)
}

func (r *PaymentRepository) GetByMerchantTxnID(ctx context.Context, merchantTxnID string) (*dompayment.Intent, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, address_id, total_amount, checkout_type, merchant_transaction_id,
               status, COALESCE(gateway_transaction_id, ''), failure_code, failure_message, created_at
        FROM payments
        WHERE merchant_transaction_id = ?
    `, merchantTxnID)

	var intent dompayment.Intent
	var failureCode, failureMessage sql.NullString
	err := row.Scan(&intent.ID, &intent.UserID, &intent.AddressID, &intent.TotalAmount,
		&intent.CheckoutType, &intent.MerchantTxnID, &intent.Status, &intent.GatewayTxnID,
		&failureCode, &failureMessage, &intent.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dompayment.ErrIntentNotFound
		}
		return nil, err
	}
	if failureCode.Valid || failureMessage.Valid {
		intent.Failure = &dompayment.FailureReason{
			Code:    failureCode.String,
			Message: failureMessage.String,
		}
	}

	items, err := r.listItems(ctx, intent.ID)
	if err != nil {
		return nil, err
	}
	intent.Items = items
	return &intent, nil
}

// MarkSuccess is a compare-and-set on status: only a PENDING intent moves
// to SUCCESS. Zero rows affected means either no such intent or one that
// already left PENDING.
func (r *PaymentRepository) MarkSuccess(ctx context.Context, merchantTxnID, gatewayTxnID string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE payments
        SET status = ?, gateway_transaction_id = ?
        WHERE merchant_transaction_id = ? AND status = ?
    `, dompayment.StatusSuccess, gatewayTxnID, merchantTxnID, dompayment.StatusPending)
	if err != nil {
		return err
	}
	return r.casOutcome(ctx, res, merchantTxnID)
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, merchantTxnID string, reason dompayment.FailureReason) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE payments
        SET status = ?, failure_code = ?, failure_message = ?
        WHERE merchant_transaction_id = ? AND status = ?
    `, dompayment.StatusFailed, reason.Code, reason.Message, merchantTxnID, dompayment.StatusPending)
	if err != nil {
		return err
	}
	return r.casOutcome(ctx, res, merchantTxnID)
}

func (r *PaymentRepository) casOutcome(ctx context.Context, res sql.Result, merchantTxnID string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	var exists bool
	err = r.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM payments WHERE merchant_transaction_id = ?)
    `, merchantTxnID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return dompayment.ErrIntentNotFound
	}
	return dompayment.ErrAlreadyFinalized
}

func (r *PaymentRepository) listItems(ctx context.Context, paymentID int64) ([]dompayment.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT product_id, product_name, unit_price, quantity
        FROM payment_items
        WHERE payment_id = ?
        ORDER BY id
    `, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []dompayment.LineItem
	for rows.Next() {
		var line dompayment.LineItem
		if err := rows.Scan(&line.ProductID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return nil, err
		}
		items = append(items, line)
	}
	return items, rows.Err()
}
