package slotservice

import (
	"context"
	"fmt"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/pkg/keylock"
	"go.uber.org/zap"
)

type Repo interface {
	Find(ctx context.Context, orderID, workerID int) (*domain.Assignment, error)
	ListByOrder(ctx context.Context, orderID int) ([]domain.Assignment, error)
	Add(ctx context.Context, a *domain.Assignment, limit int) (bool, error)
	Delete(ctx context.Context, orderID, workerID int) (bool, error)
}

type OrderFinder interface {
	FindByID(ctx context.Context, id int) (*domain.Order, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Service struct {
	repo       Repo
	orders     OrderFinder
	notifier   Notifier
	locker     *keylock.Locker
	maxWorkers int
}

func New(repo Repo, orders OrderFinder, notifier Notifier, locker *keylock.Locker, maxWorkers int) *Service {
	return &Service{
		repo:       repo,
		orders:     orders,
		notifier:   notifier,
		locker:     locker,
		maxWorkers: maxWorkers,
	}
}

func (s *Service) activeOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	if !order.Status.Active() {
		return nil, fmt.Errorf("order %d is %s: %w", orderID, order.Status, apperr.ErrInvalidState)
	}
	return order, nil
}

// Claim takes one of the order's worker slots.
func (s *Service) Claim(ctx context.Context, orderID int, worker domain.Actor) (*domain.Assignment, error) {
	if worker.Role != domain.RoleWorker {
		return nil, apperr.ErrUnauthorized
	}

	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.activeOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx, orderID, worker.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zap.L().Info("worker already claimed order", zap.Int("order_id", orderID), zap.Int("worker_id", worker.UserID))
		return nil, apperr.ErrAlreadyClaimed
	}

	a := &domain.Assignment{
		OrderID:  orderID,
		WorkerID: worker.UserID,
		JoinedAt: time.Now(),
	}
	added, err := s.repo.Add(ctx, a, s.maxWorkers)
	if err != nil {
		zap.L().Error("failed to add assignment", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	if !added {
		// another instance may have inserted the same pair between Find and Add
		if again, err := s.repo.Find(ctx, orderID, worker.UserID); err == nil && again != nil {
			return nil, apperr.ErrAlreadyClaimed
		}
		zap.L().Info("no free slots", zap.Int("order_id", orderID), zap.Int("max", s.maxWorkers))
		return nil, apperr.ErrSlotsExhausted
	}

	zap.L().Info("worker joined order", zap.Int("order_id", orderID), zap.Int("worker_id", worker.UserID))
	s.notify(ctx, domain.Notification{
		Kind:        domain.NotifyWorkerJoined,
		OrderID:     orderID,
		RecipientID: order.BuyerID,
		WorkerID:    worker.UserID,
		Status:      order.Status,
	})
	return a, nil
}

// Release frees the worker's slot. The row is removed, not archived.
func (s *Service) Release(ctx context.Context, orderID int, worker domain.Actor) error {
	unlock := s.locker.Lock(orderID)
	defer unlock()

	if _, err := s.activeOrder(ctx, orderID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, orderID, worker.UserID)
	if err != nil {
		zap.L().Error("failed to delete assignment", zap.Int("order_id", orderID), zap.Error(err))
		return err
	}
	if !deleted {
		return apperr.ErrNotAssigned
	}
	zap.L().Info("worker left order", zap.Int("order_id", orderID), zap.Int("worker_id", worker.UserID))
	return nil
}

func (s *Service) IsAssigned(ctx context.Context, orderID, workerID int) (bool, error) {
	a, err := s.repo.Find(ctx, orderID, workerID)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

func (s *Service) ListWorkers(ctx context.Context, orderID int) ([]domain.Assignment, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	n.CreatedAt = time.Now()
	if err := s.notifier.Notify(ctx, n); err != nil {
		zap.L().Warn("failed to send notification", zap.String("kind", string(n.Kind)), zap.Int("order_id", n.OrderID), zap.Error(err))
	}
}
