package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
)

type ReviewRepo struct {
	s *Store
}

func (r *ReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := workerKey{orderID: review.OrderID, workerID: review.WorkerID}
	if _, ok := r.s.reviews[k]; ok {
		return apperr.ErrAlreadyReviewed
	}
	r.s.reviewSeq++
	review.ID = r.s.reviewSeq
	r.s.reviews[k] = *review
	return nil
}

func (r *ReviewRepo) Find(_ context.Context, orderID, workerID int) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[workerKey{orderID: orderID, workerID: workerID}]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *ReviewRepo) ListByOrder(_ context.Context, orderID int) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var reviews []domain.Review
	for k, rv := range r.s.reviews {
		if k.orderID == orderID {
			reviews = append(reviews, rv)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *ReviewRepo) ListByProduct(_ context.Context, productID, limit int) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var reviews []domain.Review
	for k, rv := range r.s.reviews {
		if o, ok := r.s.orders[k.orderID]; ok && o.ProductID == productID {
			reviews = append(reviews, rv)
		}
	}
	return newest(reviews, limit), nil
}

func (r *ReviewRepo) ListRecent(_ context.Context, limit int) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reviews := make([]domain.Review, 0, len(r.s.reviews))
	for _, rv := range r.s.reviews {
		reviews = append(reviews, rv)
	}
	return newest(reviews, limit), nil
}

func newest(reviews []domain.Review, limit int) []domain.Review {
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID > reviews[j].ID })
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}
