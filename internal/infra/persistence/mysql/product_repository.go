package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domproduct "example.com/storefront/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, offer_price, images, stock, is_active, ratings_count, ratings_average`

func scanProduct(row interface{ Scan(...any) error }) (*domproduct.Product, error) {
	var p domproduct.Product
	var images sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OfferPrice, &images, &p.Stock, &p.IsActive, &p.RatingsCount, &p.RatingsAverage); err != nil {
		return nil, err
	}
	if images.Valid && images.String != "" {
		if err := json.Unmarshal([]byte(images.String), &p.Images); err != nil {
			return nil, fmt.Errorf("decode product images: %w", err)
		}
	}
	return &p, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+productColumns+` FROM products WHERE id = ?
    `, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domproduct.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT `+productColumns+` FROM products WHERE id IN (`+placeholders+`)
    `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domproduct.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var conds []string
	var args []any
	if filter.OnlyActive {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.Search != "" {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domproduct.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
