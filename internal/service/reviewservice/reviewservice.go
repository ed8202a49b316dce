package reviewservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/session"
	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5

	productReviewsLimit = 20
	latestReviewsLimit  = 30
)

type Repo interface {
	Create(ctx context.Context, review *domain.Review) error
	Find(ctx context.Context, orderID, workerID int) (*domain.Review, error)
	ListByOrder(ctx context.Context, orderID int) ([]domain.Review, error)
	ListByProduct(ctx context.Context, productID, limit int) ([]domain.Review, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Review, error)
}

type OrderFinder interface {
	FindByID(ctx context.Context, id int) (*domain.Order, error)
}

type Assignments interface {
	ListByOrder(ctx context.Context, orderID int) ([]domain.Assignment, error)
}

type Sessions interface {
	Get(ctx context.Context, userID int) (session.State, error)
	Set(ctx context.Context, userID int, st session.State) error
	Clear(ctx context.Context, userID int) error
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Service struct {
	repo        Repo
	orders      OrderFinder
	assignments Assignments
	sessions    Sessions
	notifier    Notifier
}

func New(repo Repo, orders OrderFinder, assignments Assignments, sessions Sessions, notifier Notifier) *Service {
	return &Service{
		repo:        repo,
		orders:      orders,
		assignments: assignments,
		sessions:    sessions,
		notifier:    notifier,
	}
}

// Open starts collecting reviews for a completed order by asking about its first unrated worker.
// The buyer is not asked again while that question is still open.
func (s *Service) Open(ctx context.Context, order *domain.Order) error {
	next, err := s.nextWorker(ctx, order.ID)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	want := session.State{Kind: session.KindAwaitingReview, OrderID: order.ID, WorkerID: next.WorkerID}
	current, err := s.sessions.Get(ctx, order.BuyerID)
	if err != nil {
		zap.L().Warn("failed to read session", zap.Int("user_id", order.BuyerID), zap.Error(err))
	} else if current == want {
		return nil
	}
	return s.prompt(ctx, order, next.WorkerID)
}

// Next returns the first assigned worker the buyer has not rated yet, or nil when all are rated.
func (s *Service) Next(ctx context.Context, orderID int, buyer domain.Actor) (*domain.Assignment, error) {
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyer.UserID && !buyer.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	return s.nextWorker(ctx, orderID)
}

func (s *Service) RecordReview(ctx context.Context, orderID, buyerID, workerID, rating int, text string) (*domain.Review, error) {
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDone {
		return nil, fmt.Errorf("review order %d in status %s: %w", orderID, order.Status, apperr.ErrInvalidState)
	}
	if order.BuyerID != buyerID {
		return nil, apperr.ErrUnauthorized
	}

	workers, err := s.assignments.ListByOrder(ctx, orderID)
	if err != nil {
		zap.L().Error("failed to get assigned workers", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	if !contains(workers, workerID) {
		return nil, apperr.ErrNotAssigned
	}
	if rating < minRating || rating > maxRating {
		return nil, fmt.Errorf("rating %d: %w", rating, apperr.ErrInvalidArgument)
	}

	existing, err := s.repo.Find(ctx, orderID, workerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrAlreadyReviewed
	}

	review := &domain.Review{
		OrderID:   orderID,
		BuyerID:   buyerID,
		WorkerID:  workerID,
		Rating:    rating,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	zap.L().Info("review recorded", zap.Int("order_id", orderID), zap.Int("worker_id", workerID), zap.Int("rating", rating))

	next, err := s.nextWorker(ctx, orderID)
	if err != nil {
		return review, nil
	}
	if next != nil {
		if err := s.prompt(ctx, order, next.WorkerID); err != nil {
			zap.L().Warn("failed to prompt next review", zap.Int("order_id", orderID), zap.Error(err))
		}
		return review, nil
	}

	if err := s.sessions.Clear(ctx, buyerID); err != nil {
		zap.L().Warn("failed to clear session", zap.Int("user_id", buyerID), zap.Error(err))
	}
	s.notify(ctx, domain.Notification{Kind: domain.NotifyReviewsClosed, OrderID: orderID, RecipientID: buyerID})
	return review, nil
}

func (s *Service) GetReviews(ctx context.Context, orderID int) ([]domain.Review, error) {
	if _, err := s.order(ctx, orderID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		zap.L().Error("failed to get reviews", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

// ProductReviews returns the latest reviews left on orders of the product.
func (s *Service) ProductReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID, productReviewsLimit)
	if err != nil {
		zap.L().Error("failed to get product reviews", zap.Int("product_id", productID), zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (s *Service) LatestReviews(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.repo.ListRecent(ctx, latestReviewsLimit)
	if err != nil {
		zap.L().Error("failed to get latest reviews", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (s *Service) order(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return order, nil
}

func (s *Service) nextWorker(ctx context.Context, orderID int) (*domain.Assignment, error) {
	workers, err := s.assignments.ListByOrder(ctx, orderID)
	if err != nil {
		zap.L().Error("failed to get assigned workers", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	reviews, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		zap.L().Error("failed to get reviews", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	reviewed := make(map[int]bool, len(reviews))
	for _, r := range reviews {
		reviewed[r.WorkerID] = true
	}
	for _, w := range workers {
		if !reviewed[w.WorkerID] {
			next := w
			return &next, nil
		}
	}
	return nil, nil
}

func (s *Service) prompt(ctx context.Context, order *domain.Order, workerID int) error {
	st := session.State{Kind: session.KindAwaitingReview, OrderID: order.ID, WorkerID: workerID}
	if err := s.sessions.Set(ctx, order.BuyerID, st); err != nil {
		return err
	}
	s.notify(ctx, domain.Notification{
		Kind:        domain.NotifyReviewRequested,
		OrderID:     order.ID,
		RecipientID: order.BuyerID,
		WorkerID:    workerID,
	})
	return nil
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	n.CreatedAt = time.Now()
	if err := s.notifier.Notify(ctx, n); err != nil {
		zap.L().Warn("failed to send notification", zap.String("kind", string(n.Kind)), zap.Int("order_id", n.OrderID), zap.Error(err))
	}
}

func contains(workers []domain.Assignment, workerID int) bool {
	for _, w := range workers {
		if w.WorkerID == workerID {
			return true
		}
	}
	return false
}
