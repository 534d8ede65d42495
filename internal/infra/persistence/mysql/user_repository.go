package mysql

import (
	"context"
	"database/sql"
	"errors"

	domuser "example.com/storefront/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, COALESCE(phone, ''), role_code
        FROM users WHERE id = ?
    `, id)

	var u domuser.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.RoleCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domuser.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
