package statsrepo

import (
	"context"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
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

// Collect counts users, products and orders. Revenue covers every order whose payment was accepted.
func (r *Repository) Collect(ctx context.Context) (*domain.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status IN ('paid', 'in_progress', 'delivering')),
			(SELECT COUNT(*) FROM orders WHERE status = 'done'),
			(SELECT COALESCE(SUM(price), 0) FROM orders WHERE status IN ('paid', 'in_progress', 'delivering', 'done'))
	`
	var s domain.Stats
	err := r.db.QueryRow(ctx, query).Scan(&s.Users, &s.Products, &s.Orders, &s.Paid, &s.Done, &s.Revenue)
	if err != nil {
		zap.L().Error("can't collect stats", zap.Error(err))
		return nil, err
	}
	return &s, nil
}
