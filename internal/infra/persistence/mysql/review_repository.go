package mysql

import (
	"context"
	"database/sql"
	"errors"

	domreview "example.com/storefront/internal/domain/review"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `r.id, r.product_id, r.user_id, r.order_id, r.rating, r.comment, r.created_at, u.name`

func scanReview(row interface{ Scan(...any) error }) (*domreview.Review, error) {
	var rv domreview.Review
	if err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.OrderID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.ReviewerName); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domreview.Review) (_ *domreview.Review, retErr error) {
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
        INSERT INTO reviews (product_id, user_id, order_id, rating, comment)
        VALUES (?, ?, ?, ?, ?)
    `, rv.ProductID, rv.UserID, rv.OrderID, rv.Rating, rv.Comment)
	if isDuplicateEntry(err) {
		return nil, domreview.ErrDuplicateReview
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Refresh the denormalized aggregates on the product row in the same
	// transaction, so listings never see a review without its effect on
	// the average.
	if _, err := tx.ExecContext(ctx, `
        UPDATE products
        SET ratings_count   = (SELECT COUNT(*) FROM reviews WHERE product_id = ?),
            ratings_average = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = ?)
        WHERE id = ?
    `, rv.ProductID, rv.ProductID, rv.ProductID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.getByID(ctx, id)
}

func (r *ReviewRepository) getByID(ctx context.Context, id int64) (*domreview.Review, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+reviewColumns+`
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.id = ?
    `, id)
	rv, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domreview.ErrReviewNotFound
	}
	return rv, err
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]*domreview.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+reviewColumns+`
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.product_id = ?
        ORDER BY r.created_at DESC, r.id DESC
    `, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domreview.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
