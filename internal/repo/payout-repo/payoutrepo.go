package payoutrepo

import (
	"context"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) FindByOrder(ctx context.Context, orderID int) ([]domain.Payout, error) {
	query := `
        SELECT id, order_id, worker_id, amount, created_at
        FROM payouts
        WHERE order_id = $1
        ORDER BY worker_id ASC
    `
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("failed to get payouts", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.Payout
	for rows.Next() {
		var p domain.Payout
		if err := rows.Scan(&p.ID, &p.OrderID, &p.WorkerID, &p.Amount, &p.CreatedAt); err != nil {
			zap.L().Error("failed to scan payout row", zap.Error(err))
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

// CreateBatch writes all payouts of one order atomically. Rows that already exist are kept.
func (r *Repository) CreateBatch(ctx context.Context, payouts []domain.Payout) error {
	query := `
		INSERT INTO payouts (order_id, worker_id, amount, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id, worker_id) DO NOTHING
	`
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		for _, p := range payouts {
			if _, err := r.db.Exec(ctx, query, p.OrderID, p.WorkerID, p.Amount, p.CreatedAt); err != nil {
				zap.L().Error("failed to insert payout",
					zap.Int("order_id", p.OrderID), zap.Int("worker_id", p.WorkerID), zap.Error(err))
				return err
			}
		}
		return nil
	})
}
