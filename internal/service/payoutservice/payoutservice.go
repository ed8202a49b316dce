package payoutservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	FindByOrder(ctx context.Context, orderID int) ([]domain.Payout, error)
	CreateBatch(ctx context.Context, payouts []domain.Payout) error
}

type Assignments interface {
	ListByOrder(ctx context.Context, orderID int) ([]domain.Assignment, error)
}

type Service struct {
	repo        Repo
	assignments Assignments
	percent     decimal.Decimal
}

func New(repo Repo, assignments Assignments, workerPercent float64) *Service {
	return &Service{
		repo:        repo,
		assignments: assignments,
		percent:     decimal.NewFromFloat(workerPercent),
	}
}

var ErrNoAssignedWorkers = errors.New("no workers assigned to order")

// Split returns the workers' share of the price and the amount each of n workers receives.
// Both are rounded to cents; whatever is lost to rounding stays unpaid.
func Split(price, percent decimal.Decimal, n int) (share, each decimal.Decimal) {
	share = price.Mul(percent).Round(2)
	if n <= 0 {
		return share, decimal.Zero
	}
	each = share.Div(decimal.NewFromInt(int64(n))).Round(2)
	return share, each
}

// Settle writes the payouts of a completed order. Calling it again returns the rows
// written the first time.
func (s *Service) Settle(ctx context.Context, order *domain.Order) ([]domain.Payout, error) {
	existing, err := s.repo.FindByOrder(ctx, order.ID)
	if err != nil {
		zap.L().Error("failed to get payouts", zap.Int("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	workers, err := s.assignments.ListByOrder(ctx, order.ID)
	if err != nil {
		zap.L().Error("failed to get assigned workers", zap.Int("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	if len(workers) == 0 {
		zap.L().Warn("order completed without workers", zap.Int("order_id", order.ID))
		return nil, fmt.Errorf("settle order %d: %w", order.ID, ErrNoAssignedWorkers)
	}

	_, each := Split(order.Price, s.percent, len(workers))
	now := time.Now()
	payouts := make([]domain.Payout, 0, len(workers))
	for _, w := range workers {
		payouts = append(payouts, domain.Payout{
			OrderID:   order.ID,
			WorkerID:  w.WorkerID,
			Amount:    each,
			CreatedAt: now,
		})
	}

	if err := s.repo.CreateBatch(ctx, payouts); err != nil {
		zap.L().Error("failed to save payouts", zap.Int("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	zap.L().Info("payouts recorded",
		zap.Int("order_id", order.ID), zap.Int("workers", len(payouts)), zap.String("each", each.StringFixed(2)))
	return payouts, nil
}

// GetPayouts returns every payout of the order to an admin and only the caller's own row to a worker.
func (s *Service) GetPayouts(ctx context.Context, orderID int, actor domain.Actor) ([]domain.Payout, error) {
	payouts, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		zap.L().Error("failed to get payouts", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	if actor.IsAdmin() {
		return payouts, nil
	}
	own := make([]domain.Payout, 0, 1)
	for _, p := range payouts {
		if p.WorkerID == actor.UserID {
			own = append(own, p)
		}
	}
	return own, nil
}
