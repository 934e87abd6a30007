package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals an unknown or inactive product id.
var ErrNotFound = errors.New("product not found")

type Repository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	UpdatePrice(ctx context.Context, id int64, price int) (*Product, error)
	SetActive(ctx context.Context, id int64, active bool) (*Product, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, name, price, is_active, created_at, updated_at
		FROM products
		WHERE is_active = true
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `
		SELECT id, name, price, is_active, created_at, updated_at
		FROM products
		WHERE id = $1 AND is_active = true
	`

	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %d: %w", id, err)
	}

	return &p, nil
}

// UpdatePrice overwrites the price unconditionally; inactive products can be
// repriced too.
func (r *postgresRepository) UpdatePrice(ctx context.Context, id int64, price int) (*Product, error) {
	query := `
		UPDATE products
		SET price = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, name, price, is_active, created_at, updated_at
	`

	var p Product
	err := r.db.QueryRow(ctx, query, price, id).Scan(&p.ID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to update price for product %d: %w", id, err)
	}

	return &p, nil
}

func (r *postgresRepository) SetActive(ctx context.Context, id int64, active bool) (*Product, error) {
	query := `
		UPDATE products
		SET is_active = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, name, price, is_active, created_at, updated_at
	`

	var p Product
	err := r.db.QueryRow(ctx, query, active, id).Scan(&p.ID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to set active flag for product %d: %w", id, err)
	}

	return &p, nil
}
