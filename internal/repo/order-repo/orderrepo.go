package orderrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const columns = `id, buyer_id, product_id, price, status, payment_ref, COALESCE(evidence_ref, ''),
	created_at, started_at, completed_at, reconcile_attempts, payment_checked`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID, &order.BuyerID, &order.ProductID, &order.Price, &order.Status, &order.PaymentRef, &order.EvidenceRef,
		&order.CreatedAt, &order.StartedAt, &order.CompletedAt, &order.ReconcileAttempts, &order.PaymentChecked,
	)
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (buyer_id, product_id, price, status, payment_ref, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, order.BuyerID, order.ProductID, order.Price, order.Status, order.PaymentRef, order.CreatedAt).
		Scan(&order.ID)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `
        SELECT ` + columns + `
        FROM orders
        WHERE id = $1
    `
	var order domain.Order
	err := scan(r.db.QueryRow(ctx, query, id), &order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Int("order_id", id), zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindByBuyer(ctx context.Context, buyerID int) ([]domain.Order, error) {
	query := `
        SELECT ` + columns + `
        FROM orders
        WHERE buyer_id = $1
        ORDER BY created_at DESC
        LIMIT 50
    `
	return r.list(ctx, query, buyerID)
}

// FindAll returns the newest orders of every buyer.
func (r *Repository) FindAll(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `
        SELECT ` + columns + `
        FROM orders
        ORDER BY id DESC
        LIMIT $1
    `
	return r.list(ctx, query, limit)
}

// FindForReconciliation returns orders whose payment is still undecided and not given up on, oldest first.
func (r *Repository) FindForReconciliation(ctx context.Context, limit uint32) ([]domain.Order, error) {
	query := `
        SELECT ` + columns + `
        FROM orders
        WHERE status IN ('awaiting_payment_evidence', 'pending_verification') AND NOT payment_checked
        ORDER BY created_at ASC
        LIMIT $1
    `
	return r.list(ctx, query, int(limit))
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scan(rows, &order); err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate order rows", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// Update writes the mutable columns only if the stored status still equals expected.
// Price is never written after creation.
func (r *Repository) Update(ctx context.Context, order *domain.Order, expected domain.OrderStatus) (bool, error) {
	query := `
        UPDATE orders
        SET status = $1, evidence_ref = $2, started_at = $3, completed_at = $4, reconcile_attempts = $5, payment_checked = $6
        WHERE id = $7 AND status = $8
    `
	tag, err := r.db.Exec(ctx, query,
		order.Status, order.EvidenceRef, order.StartedAt, order.CompletedAt, order.ReconcileAttempts, order.PaymentChecked,
		order.ID, expected,
	)
	if err != nil {
		zap.L().Error("failed to update order", zap.Int("order_id", order.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
