package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, `
		SELECT id, provider_id, product_type, title, description, city,
		       max_adults, max_dogs, start_date, duration_days, active,
		       created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, productType string, limit, offset int) ([]*Product, error) {
	query := `
		SELECT id, provider_id, product_type, title, description, city,
		       max_adults, max_dogs, start_date, duration_days, active,
		       created_at, updated_at
		FROM products
		WHERE active = TRUE
	`
	args := []interface{}{}
	if productType != "" {
		query += ` AND product_type = $1`
		args = append(args, productType)
	}
	query += ` ORDER BY created_at DESC`
	if productType != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	products := []*Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

// GetTitle returns just the product title, for notification content
func (r *Repository) GetTitle(ctx context.Context, productID uuid.UUID) (string, error) {
	var title string
	err := r.db.GetContext(ctx, &title, `SELECT title FROM products WHERE id = $1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrProductNotFound
	}
	return title, err
}
