package memrepo

import (
	"context"

	"github.com/GlebRadaev/fulfillment/internal/domain"
)

type AssignmentRepo struct {
	s *Store
}

func (r *AssignmentRepo) Find(_ context.Context, orderID, workerID int) (*domain.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.assignments[orderID] {
		if a.WorkerID == workerID {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AssignmentRepo) ListByOrder(_ context.Context, orderID int) ([]domain.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.assignments[orderID]
	if len(list) == 0 {
		return nil, nil
	}
	return append([]domain.Assignment(nil), list...), nil
}

func (r *AssignmentRepo) Add(_ context.Context, a *domain.Assignment, limit int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.assignments[a.OrderID]
	if len(list) >= limit {
		return false, nil
	}
	for _, existing := range list {
		if existing.WorkerID == a.WorkerID {
			return false, nil
		}
	}
	r.s.assignments[a.OrderID] = append(list, *a)
	return true, nil
}

func (r *AssignmentRepo) Delete(_ context.Context, orderID, workerID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.assignments[orderID]
	for i, a := range list {
		if a.WorkerID == workerID {
			r.s.assignments[orderID] = append(list[:i:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
