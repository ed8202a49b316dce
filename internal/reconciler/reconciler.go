// Package reconciler polls the payment oracle for orders whose payment is still undecided.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/config"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/service/orderservice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Orders interface {
	FindForReconciliation(ctx context.Context, limit uint32) ([]domain.Order, error)
	PollTarget(ctx context.Context, orderID int) (string, bool, error)
	ConfirmPayment(ctx context.Context, orderID int, source orderservice.Source) (*domain.Order, error)
	RejectPayment(ctx context.Context, orderID int, source orderservice.Source) (*domain.Order, error)
	RecordPollAttempt(ctx context.Context, orderID, maxAttempts int) (*domain.Order, error)
}

type Oracle interface {
	StatusOf(ctx context.Context, ref string) (domain.PaymentStatus, error)
}

type Service struct {
	orders         Orders
	oracle         Oracle
	limit          uint32
	maxAttempts    int
	workerPool     WorkerPoolI
	updateInterval time.Duration

	inFlight sync.Map
	done     chan struct{}
}

func New(cfg *config.Config, orders Orders, oracle Oracle) *Service {
	return &Service{
		orders:         orders,
		oracle:         oracle,
		limit:          cfg.ReconcileBatch,
		maxAttempts:    cfg.ReconcileMaxAttempts,
		workerPool:     NewWorkerPool(cfg.ReconcileWorkers),
		updateInterval: cfg.ReconcileInterval,
		done:           make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Reconciler started", zap.Duration("interval", s.updateInterval))
	go s.run(ctx)
}

// Wait blocks until the loop started by Start has stopped and queued polls have finished.
func (s *Service) Wait() {
	<-s.done
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer func() {
		ticker.Stop()
		s.workerPool.Close()
		close(s.done)
	}()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconciler")
			return
		case <-ticker.C:
			s.processOrders(ctx)
		}
	}
}

func (s *Service) processOrders(ctx context.Context) {
	orders, err := s.orders.FindForReconciliation(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch orders for reconciliation", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, order := range orders {
		orderID := order.ID

		if _, loaded := s.inFlight.LoadOrStore(orderID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inFlight.Delete(orderID)
				return s.handleOrder(ctx, orderID)
			})
			if err != nil {
				s.inFlight.Delete(orderID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("Error scheduling reconciliation", zap.Error(err))
	}
}

// handleOrder polls the oracle once for the order and applies the answer. The order lock is
// held only while reading the reference and while applying the result, never during the poll.
func (s *Service) handleOrder(ctx context.Context, orderID int) error {
	ref, ok, err := s.orders.PollTarget(ctx, orderID)
	if err != nil {
		return fmt.Errorf("read payment reference of order %d: %w", orderID, err)
	}
	if !ok {
		return nil
	}

	status, err := s.oracle.StatusOf(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		zap.L().Warn("Payment oracle unavailable", zap.Int("order_id", orderID), zap.Error(err))
		status = domain.PaymentUnknown
	}

	switch status {
	case domain.PaymentPaid:
		_, err = s.orders.ConfirmPayment(ctx, orderID, orderservice.SourceReconciler)
	case domain.PaymentFailed:
		_, err = s.orders.RejectPayment(ctx, orderID, orderservice.SourceReconciler)
	default:
		_, err = s.orders.RecordPollAttempt(ctx, orderID, s.maxAttempts)
	}

	// an admin may have decided while the oracle was being polled
	if errors.Is(err, apperr.ErrInvalidState) || errors.Is(err, apperr.ErrConflict) {
		zap.L().Info("Order resolved concurrently, skipping", zap.Int("order_id", orderID), zap.String("payment", string(status)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply payment status %s to order %d: %w", status, orderID, err)
	}
	return nil
}
