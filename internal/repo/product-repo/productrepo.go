package productrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, media, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.Media, product.CreatedAt).
		Scan(&product.ID)
	if err != nil {
		zap.L().Error("can't save product", zap.Error(err))
		return err
	}
	product.UpdatedAt = product.CreatedAt
	return nil
}

// Update rewrites the catalog card. Orders keep the price they were created with.
func (r *Repository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, media = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.Media, product.UpdatedAt, product.ID)
	if err != nil {
		zap.L().Error("can't update product", zap.Int("product_id", product.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the product unless some order refers to it.
func (r *Repository) Delete(ctx context.Context, id int) (bool, error) {
	query := `
		DELETE FROM products
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM orders WHERE product_id = $1)
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't delete product", zap.Int("product_id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, media, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var p domain.Product
	err := r.db.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Media, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find product", zap.Int("product_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.ProductSummary, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.media, p.created_at, p.updated_at,
			(SELECT AVG(rv.rating)::float8 FROM reviews rv JOIN orders o ON o.id = rv.order_id WHERE o.product_id = p.id),
			(SELECT COUNT(*) FROM orders o WHERE o.product_id = p.id AND o.status = 'done')
		FROM products p
		ORDER BY p.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []domain.ProductSummary
	for rows.Next() {
		var s domain.ProductSummary
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Media, &s.CreatedAt, &s.UpdatedAt, &s.Rating, &s.DoneCount)
		if err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, s)
	}
	return products, rows.Err()
}
