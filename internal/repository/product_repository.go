package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: product description required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price cannot be negative", ErrInvalidInput)
	}

	sql := `
		INSERT INTO products (
			name,
			price,
			description,
			created_at,
			updated_at
	) VALUES ($1, $2, $3, $4, $5)
	RETURNING product_id
	`

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Price,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ProductID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			product_id,
			name,
			price,
			description,
			created_at,
			updated_at
		FROM products WHERE product_id = $1
		`

	var product models.Product

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&product.ProductID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			product_id,
			name,
			price,
			description,
			created_at,
			updated_at
		FROM products WHERE product_id = ANY($1::int[])
		`

	rows, err := r.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var p models.Product

		err := rows.Scan(&p.ProductID,
			&p.Name,
			&p.Price,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	sql := `
    SELECT
        product_id,
        name,
		price,
		description,
		created_at,
		updated_at
    FROM products
    ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var p models.Product

		err := rows.Scan(&p.ProductID,
			&p.Name,
			&p.Price,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: product description required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price cannot be negative", ErrInvalidInput)
	}
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `
	UPDATE products
	SET
		name = $1,
		price = $2,
    	description = $3,
		updated_at = $4
	WHERE product_id = $5
	RETURNING created_at, updated_at
	`

	now := time.Now()

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Price,
		p.Description,
		now,
		p.ProductID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update product %d: %w", p.ProductID, err)
	}

	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `DELETE FROM products WHERE product_id = $1`

	result, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
