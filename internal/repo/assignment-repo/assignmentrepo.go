package assignmentrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"github.com/jackc/pgx/v5"
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

func (r *Repository) Find(ctx context.Context, orderID, workerID int) (*domain.Assignment, error) {
	query := `
        SELECT order_id, worker_id, joined_at
        FROM order_workers
        WHERE order_id = $1 AND worker_id = $2
    `
	var a domain.Assignment
	err := r.db.QueryRow(ctx, query, orderID, workerID).Scan(&a.OrderID, &a.WorkerID, &a.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get assignment", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int) ([]domain.Assignment, error) {
	query := `
        SELECT order_id, worker_id, joined_at
        FROM order_workers
        WHERE order_id = $1
        ORDER BY joined_at ASC, worker_id ASC
    `
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("failed to list assignments", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.OrderID, &a.WorkerID, &a.JoinedAt); err != nil {
			zap.L().Error("failed to scan assignment row", zap.Error(err))
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Add inserts the assignment unless the order already has limit workers. The order row is
// locked for the duration of the transaction so concurrent claims from other processes queue up.
func (r *Repository) Add(ctx context.Context, a *domain.Assignment, limit int) (bool, error) {
	var added bool
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		var id int
		if err := r.db.QueryRow(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, a.OrderID).Scan(&id); err != nil {
			zap.L().Error("failed to lock order", zap.Int("order_id", a.OrderID), zap.Error(err))
			return err
		}

		var count int
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM order_workers WHERE order_id = $1`, a.OrderID).Scan(&count); err != nil {
			zap.L().Error("failed to count assignments", zap.Int("order_id", a.OrderID), zap.Error(err))
			return err
		}
		if count >= limit {
			return nil
		}

		query := `
			INSERT INTO order_workers (order_id, worker_id, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_id, worker_id) DO NOTHING
		`
		tag, err := r.db.Exec(ctx, query, a.OrderID, a.WorkerID, a.JoinedAt)
		if err != nil {
			zap.L().Error("failed to insert assignment", zap.Int("order_id", a.OrderID), zap.Error(err))
			return err
		}
		added = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *Repository) Delete(ctx context.Context, orderID, workerID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM order_workers WHERE order_id = $1 AND worker_id = $2`, orderID, workerID)
	if err != nil {
		zap.L().Error("failed to delete assignment", zap.Int("order_id", orderID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
