package repository

import (
	"context"
	"errors"
	"fmt"

	"products-service/internal/core/domain"
	"products-service/internal/core/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository is the relational backend: rows in a fixed-schema
// products table, identifiers assigned by BIGSERIAL, audit timestamps
// defaulted and refreshed by the store.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) port.ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = "id, name, description, category, price, quantity, created_at, updated_at"

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.StoredProduct, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.StoredProduct, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id domain.ID) (*domain.StoredProduct, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

// Create inserts the row and reads back the store-assigned identifier and
// default timestamps in the same statement.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.StoredProduct, error) {
	query := `
		INSERT INTO products (name, description, category, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns

	created, err := scanProduct(r.pool.QueryRow(ctx, query,
		product.Name, product.Description, string(product.Category), product.Price, product.Quantity))
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return created, nil
}

func (r *ProductRepository) Update(ctx context.Context, id domain.ID, product *domain.Product) (*domain.StoredProduct, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, quantity = $5, updated_at = now()
		WHERE id = $6
		RETURNING ` + productColumns

	updated, err := scanProduct(r.pool.QueryRow(ctx, query,
		product.Name, product.Description, string(product.Category), product.Price, product.Quantity, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*domain.StoredProduct, error) {
	var (
		p        domain.StoredProduct
		category string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &category, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	return &p, nil
}
