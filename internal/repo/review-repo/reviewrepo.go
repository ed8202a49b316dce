package reviewrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (order_id, buyer_id, worker_id, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, review.OrderID, review.BuyerID, review.WorkerID, review.Rating, review.Text, review.CreatedAt).
		Scan(&review.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.ErrAlreadyReviewed
		}
		zap.L().Error("can't save review", zap.Int("order_id", review.OrderID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, orderID, workerID int) (*domain.Review, error) {
	query := `
		SELECT id, order_id, buyer_id, worker_id, rating, text, created_at
		FROM reviews
		WHERE order_id = $1 AND worker_id = $2
	`
	var rv domain.Review
	err := r.db.QueryRow(ctx, query, orderID, workerID).
		Scan(&rv.ID, &rv.OrderID, &rv.BuyerID, &rv.WorkerID, &rv.Rating, &rv.Text, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find review", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return &rv, nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int) ([]domain.Review, error) {
	query := `
		SELECT id, order_id, buyer_id, worker_id, rating, text, created_at
		FROM reviews
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	reviews, err := r.list(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't list reviews", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

// ListByProduct returns the newest reviews left on orders of the product.
func (r *Repository) ListByProduct(ctx context.Context, productID, limit int) ([]domain.Review, error) {
	query := `
		SELECT r.id, r.order_id, r.buyer_id, r.worker_id, r.rating, r.text, r.created_at
		FROM reviews r
		JOIN orders o ON o.id = r.order_id
		WHERE o.product_id = $1
		ORDER BY r.id DESC
		LIMIT $2
	`
	reviews, err := r.list(ctx, query, productID, limit)
	if err != nil {
		zap.L().Error("can't list product reviews", zap.Int("product_id", productID), zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domain.Review, error) {
	query := `
		SELECT id, order_id, buyer_id, worker_id, rating, text, created_at
		FROM reviews
		ORDER BY id DESC
		LIMIT $1
	`
	reviews, err := r.list(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't list latest reviews", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.OrderID, &rv.BuyerID, &rv.WorkerID, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
